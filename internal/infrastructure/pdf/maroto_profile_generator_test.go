package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/infrastructure/pdf"
)

func TestGenerateProfilePDF_DevuelvePDF(t *testing.T) {
	lk := &entity.Country{ID: 1, Name: "Sri Lanka"}
	colombo := &entity.City{ID: 1, Name: "Colombo"}
	lk.AddCity(colombo)

	c := &entity.Customer{ID: 7, Name: "Ana Perera", NIC: "901234567V", DateOfBirth: time.Date(1990, 5, 3, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, c.AttachMobileNumber(entity.NewMobileNumber("0771234567")))
	addr := entity.NewAddress("12 Main St", "")
	addr.City = colombo
	addr.Country = lk
	require.NoError(t, c.AttachAddress(addr))
	require.NoError(t, c.AttachFamilyMember(&entity.Customer{ID: 8, Name: "Ben", NIC: "B1"}))

	out, err := pdf.NewMarotoProfileGenerator("test").GenerateProfilePDF(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateProfilePDF_SinHijos(t *testing.T) {
	c := &entity.Customer{ID: 1, Name: "Solo", NIC: "S1"}
	out, err := pdf.NewMarotoProfileGenerator("").GenerateProfilePDF(context.Background(), c)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateProfilePDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoProfileGenerator("").GenerateProfilePDF(ctx, &entity.Customer{NIC: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
