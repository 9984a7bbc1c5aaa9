package entity

import (
	"time"

	"github.com/jhoicas/customer-registry/internal/domain"
)

// Customer raíz del agregado: posee en exclusiva sus MobileNumber y Address.
// Las colecciones solo se modifican con Attach*/Detach* para que la referencia
// inversa del hijo nunca quede desalineada con la colección del padre.
type Customer struct {
	ID          int64 // asignado por el almacenamiento al crear
	Name        string
	DateOfBirth time.Time
	NIC         string // código de identidad nacional, único

	mobileNumbers []*MobileNumber
	addresses     []*Address
	familyMembers []*Customer // enlaces dirigidos: A→B no implica B→A
}

// MobileNumbers devuelve una copia de la lista de móviles en el orden almacenado.
func (c *Customer) MobileNumbers() []*MobileNumber {
	return append([]*MobileNumber(nil), c.mobileNumbers...)
}

// Addresses devuelve una copia de la lista de direcciones.
func (c *Customer) Addresses() []*Address {
	return append([]*Address(nil), c.addresses...)
}

// FamilyMembers devuelve una copia de la lista de familiares en el orden almacenado.
func (c *Customer) FamilyMembers() []*Customer {
	return append([]*Customer(nil), c.familyMembers...)
}

// AttachMobileNumber agrega el móvil a la colección y fija su referencia al cliente en un solo paso.
func (c *Customer) AttachMobileNumber(m *MobileNumber) error {
	if m == nil {
		return domain.ErrInvalidInput
	}
	if m.customer != nil && m.customer != c {
		return domain.ErrAlreadyAttached
	}
	if m.customer == c {
		return nil
	}
	m.customer = c
	c.mobileNumbers = append(c.mobileNumbers, m)
	return nil
}

// AttachAddress agrega la dirección a la colección y fija su referencia al cliente en un solo paso.
func (c *Customer) AttachAddress(a *Address) error {
	if a == nil {
		return domain.ErrInvalidInput
	}
	if a.customer != nil && a.customer != c {
		return domain.ErrAlreadyAttached
	}
	if a.customer == c {
		return nil
	}
	a.customer = c
	c.addresses = append(c.addresses, a)
	return nil
}

// AttachFamilyMember registra otro cliente como familiar (enlace dirigido, sin reciprocidad).
func (c *Customer) AttachFamilyMember(other *Customer) error {
	if other == nil {
		return domain.ErrInvalidInput
	}
	c.familyMembers = append(c.familyMembers, other)
	return nil
}

// DetachMobileNumbers libera todos los móviles: limpia la referencia inversa y vacía la colección.
// Devuelve los hijos liberados para que el repositorio los elimine.
func (c *Customer) DetachMobileNumbers() []*MobileNumber {
	released := c.mobileNumbers
	for _, m := range released {
		m.customer = nil
	}
	c.mobileNumbers = nil
	return released
}

// DetachAddresses libera todas las direcciones.
func (c *Customer) DetachAddresses() []*Address {
	released := c.addresses
	for _, a := range released {
		a.customer = nil
	}
	c.addresses = nil
	return released
}

// ClearFamilyMembers elimina los enlaces a familiares; los clientes enlazados no se tocan.
func (c *Customer) ClearFamilyMembers() {
	c.familyMembers = nil
}
