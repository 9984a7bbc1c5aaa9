package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

// ProfileUseCase genera la ficha PDF de un cliente.
type ProfileUseCase struct {
	repo      repository.CustomerRepository
	generator ProfilePDFGenerator
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(repo repository.CustomerRepository, generator ProfilePDFGenerator) *ProfileUseCase {
	return &ProfileUseCase{repo: repo, generator: generator}
}

// Render devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ProfileUseCase) Render(ctx context.Context, id int64) (pdfBytes []byte, filename string, err error) {
	customer, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
	}
	pdfBytes, err = uc.generator.GenerateProfilePDF(ctx, customer)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, fmt.Sprintf("cliente-%s.pdf", safeFilePart(customer.NIC)), nil
}

// safeFilePart deja solo letras, dígitos y guiones para el Content-Disposition.
func safeFilePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "sin-nic"
	}
	return b.String()
}
