package memory

import (
	"sort"
	"time"
)

// Filas con la misma forma que las tablas de PostgreSQL (ver postgres/schema.sql).
type customerRow struct {
	id          int64
	name        string
	dateOfBirth time.Time
	nic         string
}

type mobileRow struct {
	id     int64
	number string
}

type addressRow struct {
	id        int64
	line1     string
	line2     string
	cityID    *int64
	countryID *int64
}

type countryRow struct {
	id   int64
	name string
}

type cityRow struct {
	id        int64
	countryID int64
	name      string
}

type sequences struct {
	customer, mobile, address, country, city int64
}

// state contenido completo del almacenamiento. Una transacción trabaja sobre un clon
// y lo publica al confirmar.
type state struct {
	customers map[int64]customerRow
	mobiles   map[int64][]mobileRow  // por customer_id, en orden
	addresses map[int64][]addressRow // por customer_id, en orden
	family    map[int64][]int64      // customer_id -> family_member_id, en orden
	countries map[int64]countryRow
	cities    map[int64]cityRow
	seq       sequences
}

func newState() *state {
	return &state{
		customers: map[int64]customerRow{},
		mobiles:   map[int64][]mobileRow{},
		addresses: map[int64][]addressRow{},
		family:    map[int64][]int64{},
		countries: map[int64]countryRow{},
		cities:    map[int64]cityRow{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.mobiles {
		c.mobiles[k] = append([]mobileRow(nil), v...)
	}
	for k, v := range s.addresses {
		c.addresses[k] = append([]addressRow(nil), v...)
	}
	for k, v := range s.family {
		c.family[k] = append([]int64(nil), v...)
	}
	for k, v := range s.countries {
		c.countries[k] = v
	}
	for k, v := range s.cities {
		c.cities[k] = v
	}
	return c
}

func (s *state) customerByNIC(nic string) (customerRow, bool) {
	for _, row := range s.customers {
		if row.nic == nic {
			return row, true
		}
	}
	return customerRow{}, false
}

// sortedIDs devuelve las claves en orden ascendente (orden de inserción, como ORDER BY id).
func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
