package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha (sin hora) usado en el contrato JSON.
const DateLayout = "2006-01-02"

// Date fecha sin hora serializada como "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate construye una Date truncada al día (UTC).
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON serializa la fecha; la fecha cero se escribe como null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON acepta "YYYY-MM-DD", "" o null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("fecha inválida %q: se espera %s", s, DateLayout)
	}
	d.Time = t
	return nil
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
