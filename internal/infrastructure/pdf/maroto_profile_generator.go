// Package pdf genera la ficha de cliente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + NIC        │  QR con el NIC                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Fecha de nacimiento / ID interno                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TELÉFONOS MÓVILES                                          │
//	│  TABLA: Dirección | Línea 2 | Ciudad | País                  │
//	│  FAMILIARES: Nombre (NIC)                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
)

var _ registry.ProfilePDFGenerator = (*MarotoProfileGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoProfileGenerator implementa registry.ProfilePDFGenerator usando Maroto v2.
type MarotoProfileGenerator struct {
	author string
}

// NewMarotoProfileGenerator construye el generador. author va en los metadatos del PDF.
func NewMarotoProfileGenerator(author string) *MarotoProfileGenerator {
	return &MarotoProfileGenerator{author: author}
}

// GenerateProfilePDF genera la ficha y devuelve sus bytes.
func (g *MarotoProfileGenerator) GenerateProfilePDF(ctx context.Context, customer *entity.Customer) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ficha de cliente "+customer.NIC, true).
		WithAuthor(nonEmpty(g.author, "customer-registry"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(personalRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("TELÉFONOS MÓVILES"))
	m.AddRows(mobileRows(customer.MobileNumbers())...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("DIRECCIONES"))
	m.AddRows(addressHeaderRow())
	m.AddRows(addressRows(customer.Addresses())...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("FAMILIARES"))
	m.AddRows(familyRows(customer.FamilyMembers())...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + NIC (izq) y QR con el NIC (der).
func headerRow(c *entity.Customer) core.Row {
	return row.New(24).Add(
		col.New(9).Add(
			text.New("FICHA DE CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Top: 6,
			}),
			text.New("NIC: "+c.NIC, props.Text{
				Size: 10, Top: 15, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(c.NIC, props.Rect{Percent: 90, Center: true})),
	)
}

// personalRow: fecha de nacimiento e ID interno.
func personalRow(c *entity.Customer) core.Row {
	dob := "-"
	if !c.DateOfBirth.IsZero() {
		dob = c.DateOfBirth.Format("02/01/2006")
	}
	return row.New(10).Add(
		col.New(6).Add(text.New("Fecha de nacimiento: "+dob, props.Text{Size: 9, Top: 2})),
		col.New(6).Add(text.New(fmt.Sprintf("ID interno: %d", c.ID), props.Text{
			Size: 9, Top: 2, Align: align.Right, Color: colorGray,
		})),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	})))
}

func mobileRows(mobiles []*entity.MobileNumber) []core.Row {
	if len(mobiles) == 0 {
		return []core.Row{emptyRow("Sin teléfonos registrados")}
	}
	rows := make([]core.Row, 0, len(mobiles))
	for _, m := range mobiles {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+m.Number, props.Text{Size: 9, Left: 2}),
		)))
	}
	return rows
}

// addressHeaderRow: cabecera de la tabla de direcciones.
func addressHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Dirección", 4),
		h("Línea 2", 3),
		h("Ciudad", 3),
		h("País", 2),
	)
}

func addressRows(addresses []*entity.Address) []core.Row {
	if len(addresses) == 0 {
		return []core.Row{emptyRow("Sin direcciones registradas")}
	}
	rows := make([]core.Row, 0, len(addresses))
	for _, a := range addresses {
		city, country := "-", "-"
		if a.City != nil {
			city = a.City.Name
		}
		if a.Country != nil {
			country = a.Country.Name
		}
		cell := func(s string, size int) core.Col {
			return col.New(size).Add(text.New(nonEmpty(s, "-"), props.Text{Size: 8, Top: 1, Left: 1}))
		}
		rows = append(rows, row.New(7).Add(
			cell(a.Line1, 4),
			cell(a.Line2, 3),
			cell(city, 3),
			cell(country, 2),
		))
	}
	return rows
}

func familyRows(members []*entity.Customer) []core.Row {
	if len(members) == 0 {
		return []core.Row{emptyRow("Sin familiares registrados")}
	}
	rows := make([]core.Row, 0, len(members))
	for _, fm := range members {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("• %s (NIC %s)", fm.Name, fm.NIC), props.Text{Size: 9, Left: 2}),
		)))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(5).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Left: 2, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
