package entity

// City ciudad de referencia; pertenece a exactamente un Country.
type City struct {
	ID   int64
	Name string

	country *Country
}

// Country devuelve el país al que pertenece la ciudad.
func (c *City) Country() *Country { return c.country }
