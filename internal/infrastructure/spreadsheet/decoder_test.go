package spreadsheet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/infrastructure/spreadsheet"
)

var fullHeader = []string{
	"Name", "Date of Birth", "NIC", "Mobile Numbers",
	"Address Line 1", "Address Line 2", "City ID", "Country ID", "Family Member IDs",
}

func TestNewRowDecoder_EncabezadoSinColumnasObligatorias(t *testing.T) {
	_, err := spreadsheet.NewRowDecoder([]string{"Name", "Phone"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreadableSheet))
	assert.Contains(t, err.Error(), "Date of Birth")
	assert.Contains(t, err.Error(), "NIC")
}

func TestNewRowDecoder_ColumnaRepetida(t *testing.T) {
	_, err := spreadsheet.NewRowDecoder([]string{"Name", "NIC", "Date of Birth", "nic"})
	assert.ErrorIs(t, err, domain.ErrUnreadableSheet)
}

func TestNewRowDecoder_NormalizaEncabezados(t *testing.T) {
	d, err := spreadsheet.NewRowDecoder([]string{" NOMBRE ", "Fecha de Nacimiento", "nic", "Teléfonos"})
	require.NoError(t, err)

	rec, err := d.DecodeRow([]string{"Ana", "1990-05-03", "X1", "0771; 0772"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.Name)
	assert.Equal(t, []string{"0771", "0772"}, rec.MobileNumbers)
}

func TestDecodeRow_FilaCompleta(t *testing.T) {
	d, err := spreadsheet.NewRowDecoder(fullHeader)
	require.NoError(t, err)

	rec, err := d.DecodeRow([]string{
		"Ana Perera", "03/05/1990", "901234567V", "0771|0772",
		"12 Main St|PO Box 9", "Apt 4|", "1|", "1|2", "7;8",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Perera", rec.Name)
	assert.Equal(t, "901234567V", rec.NIC)
	assert.Equal(t, time.Date(1990, 5, 3, 0, 0, 0, 0, time.UTC), rec.DateOfBirth.Time)
	assert.Equal(t, []string{"0771", "0772"}, rec.MobileNumbers)
	assert.Equal(t, []int64{7, 8}, rec.FamilyMemberIDs)

	require.Len(t, rec.Addresses, 2)
	assert.Equal(t, "12 Main St", rec.Addresses[0].AddressLine1)
	assert.Equal(t, "Apt 4", rec.Addresses[0].AddressLine2)
	require.NotNil(t, rec.Addresses[0].CityID)
	assert.Equal(t, int64(1), *rec.Addresses[0].CityID)
	assert.Equal(t, "PO Box 9", rec.Addresses[1].AddressLine1)
	assert.Nil(t, rec.Addresses[1].CityID)
	require.NotNil(t, rec.Addresses[1].CountryID)
	assert.Equal(t, int64(2), *rec.Addresses[1].CountryID)
}

func TestDecodeRow_FechaSerialDeExcel(t *testing.T) {
	d, err := spreadsheet.NewRowDecoder([]string{"Name", "Date of Birth", "NIC"})
	require.NoError(t, err)

	// 33000 = 1990-05-07 en el sistema de fechas 1900.
	rec, err := d.DecodeRow([]string{"Ana", "33000", "X1"})
	require.NoError(t, err)
	assert.Equal(t, "1990-05-07", rec.DateOfBirth.Format("2006-01-02"))
}

func TestDecodeRow_Errores(t *testing.T) {
	d, err := spreadsheet.NewRowDecoder(fullHeader)
	require.NoError(t, err)

	cases := []struct {
		name string
		row  []string
		want string
	}{
		{"sin nombre", []string{"", "1990-01-01", "X1"}, "Name: value is required"},
		{"fecha inválida", []string{"Ana", "ayer", "X1"}, `Date of Birth: invalid date "ayer"`},
		{"sin fecha", []string{"Ana", "", "X1"}, "Date of Birth: value is required"},
		{"sin NIC", []string{"Ana", "1990-01-01", " "}, "NIC: value is required"},
		{"ciudad inválida", []string{"Ana", "1990-01-01", "X1", "", "l1", "", "abc"}, `City ID: invalid id "abc"`},
		{"familiar inválido", []string{"Ana", "1990-01-01", "X1", "", "", "", "", "", "1;-3"}, `Family Member IDs: invalid id "-3"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.DecodeRow(tc.row)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDecode)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestDecodeRow_FilaCortaUsaVacios(t *testing.T) {
	d, err := spreadsheet.NewRowDecoder(fullHeader)
	require.NoError(t, err)

	rec, err := d.DecodeRow([]string{"Ana", "1990-01-01", "X1"})
	require.NoError(t, err)
	assert.Empty(t, rec.MobileNumbers)
	assert.Empty(t, rec.Addresses)
	assert.Empty(t, rec.FamilyMemberIDs)
}

func TestFactory_DevuelveNilConError(t *testing.T) {
	d, err := spreadsheet.Factory([]string{"foo"})
	assert.Error(t, err)
	assert.Nil(t, d)
}
