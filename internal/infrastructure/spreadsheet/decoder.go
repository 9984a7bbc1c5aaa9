package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain"
)

type column int

const (
	colName column = iota
	colDateOfBirth
	colNIC
	colMobileNumbers
	colAddressLine1
	colAddressLine2
	colCityID
	colCountryID
	colFamilyMemberIDs
)

// columnLabels nombres canónicos, usados en los mensajes de error.
var columnLabels = map[column]string{
	colName:            "Name",
	colDateOfBirth:     "Date of Birth",
	colNIC:             "NIC",
	colMobileNumbers:   "Mobile Numbers",
	colAddressLine1:    "Address Line 1",
	colAddressLine2:    "Address Line 2",
	colCityID:          "City ID",
	colCountryID:       "Country ID",
	colFamilyMemberIDs: "Family Member IDs",
}

// headerAliases encabezados normalizados aceptados por columna.
var headerAliases = map[string]column{
	"name":              colName,
	"fullname":          colName,
	"nombre":            colName,
	"dateofbirth":       colDateOfBirth,
	"birthdate":         colDateOfBirth,
	"dob":               colDateOfBirth,
	"fechadenacimiento": colDateOfBirth,
	"nic":               colNIC,
	"mobilenumbers":     colMobileNumbers,
	"mobilenumber":      colMobileNumbers,
	"mobiles":           colMobileNumbers,
	"telefonos":         colMobileNumbers,
	"addressline1":      colAddressLine1,
	"direccion1":        colAddressLine1,
	"addressline2":      colAddressLine2,
	"direccion2":        colAddressLine2,
	"cityid":            colCityID,
	"ciudadid":          colCityID,
	"countryid":         colCountryID,
	"paisid":            colCountryID,
	"familymemberids":   colFamilyMemberIDs,
	"familymembers":     colFamilyMemberIDs,
	"familiares":        colFamilyMemberIDs,
}

var requiredColumns = []column{colName, colDateOfBirth, colNIC}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "2006/01/02", "02-01-2006"}

// RowDecoder decodifica filas según las posiciones detectadas en el encabezado.
type RowDecoder struct {
	index map[column]int
}

// NewRowDecoder localiza las columnas en el encabezado. Sin Name, Date of Birth y NIC la
// hoja no es una tabla de clientes (domain.ErrUnreadableSheet).
func NewRowDecoder(header []string) (*RowDecoder, error) {
	index := make(map[column]int, len(columnLabels))
	for i, h := range header {
		col, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if prev, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: columna %q repetida (posiciones %d y %d)",
				domain.ErrUnreadableSheet, columnLabels[col], prev+1, i+1)
		}
		index[col] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, columnLabels[col])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: faltan columnas %s", domain.ErrUnreadableSheet, strings.Join(missing, ", "))
	}
	return &RowDecoder{index: index}, nil
}

// Factory adapta NewRowDecoder a registry.RowDecoderFactory.
func Factory(header []string) (registry.RowDecoder, error) {
	d, err := NewRowDecoder(header)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeRow convierte la fila en registro. El primer campo inválido aborta con *domain.DecodeError.
func (d *RowDecoder) DecodeRow(row []string) (*dto.CustomerRecord, error) {
	rec := &dto.CustomerRecord{
		Name: d.cell(row, colName),
		NIC:  d.cell(row, colNIC),
	}
	if rec.Name == "" {
		return nil, required(colName)
	}

	dob, err := parseDate(d.cell(row, colDateOfBirth))
	if err != nil {
		return nil, &domain.DecodeError{Column: columnLabels[colDateOfBirth], Reason: err.Error()}
	}
	rec.DateOfBirth = dob

	if rec.NIC == "" {
		return nil, required(colNIC)
	}

	rec.MobileNumbers = splitMulti(d.cell(row, colMobileNumbers))

	addresses, err := d.addresses(row)
	if err != nil {
		return nil, err
	}
	rec.Addresses = addresses

	for _, raw := range splitMulti(d.cell(row, colFamilyMemberIDs)) {
		id, err := parseID(raw)
		if err != nil {
			return nil, &domain.DecodeError{Column: columnLabels[colFamilyMemberIDs], Reason: err.Error()}
		}
		rec.FamilyMemberIDs = append(rec.FamilyMemberIDs, id)
	}
	return rec, nil
}

// addresses arma las direcciones por posición: la i-ésima parte de cada columna separada por '|'.
func (d *RowDecoder) addresses(row []string) ([]dto.AddressRecord, error) {
	line1 := splitPositional(d.cell(row, colAddressLine1))
	line2 := splitPositional(d.cell(row, colAddressLine2))
	cityIDs := splitPositional(d.cell(row, colCityID))
	countryIDs := splitPositional(d.cell(row, colCountryID))

	n := max(len(line1), len(line2), len(cityIDs), len(countryIDs))
	var out []dto.AddressRecord
	for i := 0; i < n; i++ {
		ar := dto.AddressRecord{AddressLine1: at(line1, i), AddressLine2: at(line2, i)}
		var err error
		if ar.CityID, err = optionalID(at(cityIDs, i)); err != nil {
			return nil, &domain.DecodeError{Column: columnLabels[colCityID], Reason: err.Error()}
		}
		if ar.CountryID, err = optionalID(at(countryIDs, i)); err != nil {
			return nil, &domain.DecodeError{Column: columnLabels[colCountryID], Reason: err.Error()}
		}
		if ar.AddressLine1 == "" && ar.AddressLine2 == "" && ar.CityID == nil && ar.CountryID == nil {
			continue
		}
		out = append(out, ar)
	}
	return out, nil
}

func (d *RowDecoder) cell(row []string, col column) string {
	i, ok := d.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func required(col column) error {
	return &domain.DecodeError{Column: columnLabels[col], Reason: "value is required"}
}

// normalizeHeader pasa a minúsculas, quita acentos y deja solo letras y dígitos.
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseDate acepta ISO, dd/mm/yyyy y número de serie de Excel.
func parseDate(s string) (dto.Date, error) {
	if s == "" {
		return dto.Date{}, fmt.Errorf("value is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dto.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return dto.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return dto.Date{}, fmt.Errorf("invalid date %q", s)
}

func splitMulti(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitPositional(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseID acepta enteros y, por celdas numéricas de Excel, flotantes sin parte decimal.
func parseID(s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f == math.Trunc(f) && f < math.MaxInt64 {
		return int64(f), nil
	}
	return 0, fmt.Errorf("invalid id %q", s)
}
