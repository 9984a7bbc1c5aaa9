package registry

import (
	"context"
	"fmt"

	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

// ExportUseCase exporta el registro completo.
type ExportUseCase struct {
	repo     repository.CustomerRepository
	exporter RegistryExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(repo repository.CustomerRepository, exporter RegistryExporter) *ExportUseCase {
	return &ExportUseCase{repo: repo, exporter: exporter}
}

// ExportXML serializa todos los clientes en orden de inserción.
func (uc *ExportUseCase) ExportXML(ctx context.Context) ([]byte, error) {
	customers, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: listar clientes: %w", err)
	}
	return uc.exporter.ExportXML(customers)
}
