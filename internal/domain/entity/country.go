package entity

// Country país de referencia. Es dueño de sus ciudades (borrado en cascada).
type Country struct {
	ID   int64
	Name string

	cities []*City
}

// Cities devuelve una copia de las ciudades cargadas del país.
func (c *Country) Cities() []*City {
	return append([]*City(nil), c.cities...)
}

// AddCity agrega la ciudad y fija su país en un solo paso.
func (c *Country) AddCity(city *City) {
	if city == nil || city.country == c {
		return
	}
	if prev := city.country; prev != nil {
		for i, other := range prev.cities {
			if other == city {
				prev.cities = append(prev.cities[:i], prev.cities[i+1:]...)
				break
			}
		}
	}
	city.country = c
	c.cities = append(c.cities, city)
}
