// Package xmlexport serializa el registro de clientes a XML.
package xmlexport

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
)

var _ registry.RegistryExporter = (*Exporter)(nil)

// Exporter implementa registry.RegistryExporter con etree.
type Exporter struct {
	indent int
}

// NewExporter construye el exportador. indent <= 0 produce XML sin sangría.
func NewExporter(indent int) *Exporter {
	return &Exporter{indent: indent}
}

// ExportXML genera <customers><customer id nic>…</customer></customers> con la misma
// forma plana que el registro JSON: móviles, direcciones con IDs de ciudad/país e IDs de familiares.
func (e *Exporter) ExportXML(customers []*entity.Customer) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("customers")
	root.CreateAttr("count", strconv.Itoa(len(customers)))
	for _, c := range customers {
		if c == nil {
			return nil, fmt.Errorf("xmlexport: cliente nil")
		}
		writeCustomer(root, c)
	}

	if e.indent > 0 {
		doc.Indent(e.indent)
	}
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	return out.Bytes(), nil
}

func writeCustomer(parent *etree.Element, c *entity.Customer) {
	el := parent.CreateElement("customer")
	el.CreateAttr("id", strconv.FormatInt(c.ID, 10))
	el.CreateAttr("nic", c.NIC)
	el.CreateElement("name").SetText(c.Name)
	if !c.DateOfBirth.IsZero() {
		el.CreateElement("dateOfBirth").SetText(c.DateOfBirth.Format("2006-01-02"))
	}

	mobiles := el.CreateElement("mobileNumbers")
	for _, m := range c.MobileNumbers() {
		mobiles.CreateElement("mobileNumber").SetText(m.Number)
	}

	addresses := el.CreateElement("addresses")
	for _, a := range c.Addresses() {
		ae := addresses.CreateElement("address")
		if a.City != nil {
			ae.CreateAttr("cityId", strconv.FormatInt(a.City.ID, 10))
		}
		if a.Country != nil {
			ae.CreateAttr("countryId", strconv.FormatInt(a.Country.ID, 10))
		}
		ae.CreateElement("addressLine1").SetText(a.Line1)
		ae.CreateElement("addressLine2").SetText(a.Line2)
	}

	family := el.CreateElement("familyMemberIds")
	for _, fm := range c.FamilyMembers() {
		family.CreateElement("familyMemberId").SetText(strconv.FormatInt(fm.ID, 10))
	}
}
