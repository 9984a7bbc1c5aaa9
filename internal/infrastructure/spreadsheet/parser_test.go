package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/infrastructure/spreadsheet"
)

func TestParse_XLSXPrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Date of Birth", "NIC"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Ana", 33000, "X1"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.NewParser().Parse(bytes.NewReader(buf.Bytes()), "clientes.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Date of Birth", "NIC"}, rows[0])
	assert.Equal(t, []string{"Ana", "33000", "X1"}, rows[1])
}

func TestParse_XLSXCorrupto(t *testing.T) {
	_, err := spreadsheet.NewParser().Parse(strings.NewReader("no soy un zip"), "x.xlsx")
	assert.ErrorIs(t, err, domain.ErrUnreadableSheet)
}

func TestParse_CSVConPuntoYComaYBOM(t *testing.T) {
	in := "\ufeffName;Date of Birth;NIC\nAna;1990-01-01;X1\n"
	rows, err := spreadsheet.NewParser().Parse(strings.NewReader(in), "c.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, []string{"Ana", "1990-01-01", "X1"}, rows[1])
}

func TestParse_CSVWindows1252(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().String("Name,Date of Birth,NIC\nJosé Muñoz,1990-01-01,X1\n")
	require.NoError(t, err)

	rows, err := spreadsheet.NewParser().Parse(strings.NewReader(latin), "c.csv")
	require.NoError(t, err)
	assert.Equal(t, "José Muñoz", rows[1][0])
}

func TestParse_ExtensionNoSoportada(t *testing.T) {
	_, err := spreadsheet.NewParser().Parse(strings.NewReader("x"), "clientes.xls")
	assert.ErrorIs(t, err, domain.ErrUnreadableSheet)
}
