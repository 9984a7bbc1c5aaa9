package entity

// Address dirección postal de un cliente.
// City y Country son referencias compartidas: eliminar la dirección no las elimina.
type Address struct {
	ID      int64
	Line1   string
	Line2   string
	City    *City    // opcional
	Country *Country // opcional

	customer *Customer
}

// NewAddress construye una dirección sin dueño.
func NewAddress(line1, line2 string) *Address {
	return &Address{Line1: line1, Line2: line2}
}

// Customer devuelve el cliente dueño (solo navegación).
func (a *Address) Customer() *Customer { return a.customer }
