package entity

// MobileNumber teléfono móvil de un cliente. No existe fuera de su Customer.
type MobileNumber struct {
	ID     int64
	Number string

	customer *Customer
}

// NewMobileNumber construye un móvil aún no asociado a ningún cliente.
func NewMobileNumber(number string) *MobileNumber {
	return &MobileNumber{Number: number}
}

// Customer devuelve el cliente dueño (solo navegación).
func (m *MobileNumber) Customer() *Customer { return m.customer }
