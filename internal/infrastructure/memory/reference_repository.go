package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

var (
	_ repository.CityRepository    = (*CityRepo)(nil)
	_ repository.CountryRepository = (*CountryRepo)(nil)
)

// CityRepo implementación en memoria de CityRepository.
type CityRepo struct {
	do access
}

// FindByID obtiene la ciudad con su país; nil si no existe.
func (r *CityRepo) FindByID(ctx context.Context, id int64) (*entity.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.City
	err := r.do(func(st *state) error {
		out = st.loadCity(id)
		return nil
	})
	return out, err
}

// ListByCountry lista las ciudades del país ordenadas por nombre.
func (r *CityRepo) ListByCountry(ctx context.Context, countryID int64) ([]*entity.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.City
	err := r.do(func(st *state) error {
		country := st.loadCountry(countryID)
		if country == nil {
			return nil
		}
		list = country.Cities()
		return nil
	})
	return list, err
}

// CountryRepo implementación en memoria de CountryRepository.
type CountryRepo struct {
	do access
}

// FindByID obtiene el país con sus ciudades; nil si no existe.
func (r *CountryRepo) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Country
	err := r.do(func(st *state) error {
		out = st.loadCountry(id)
		return nil
	})
	return out, err
}

// List lista los países ordenados por nombre.
func (r *CountryRepo) List(ctx context.Context) ([]*entity.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Country
	err := r.do(func(st *state) error {
		for _, id := range sortedIDs(st.countries) {
			list = append(list, st.loadCountry(id))
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, err
}

// loadCountry arma el país con sus ciudades ordenadas por nombre; nil si no existe.
func (st *state) loadCountry(id int64) *entity.Country {
	row, ok := st.countries[id]
	if !ok {
		return nil
	}
	country := &entity.Country{ID: row.id, Name: row.name}
	var cities []cityRow
	for _, c := range st.cities {
		if c.countryID == id {
			cities = append(cities, c)
		}
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].name == cities[j].name {
			return cities[i].id < cities[j].id
		}
		return cities[i].name < cities[j].name
	})
	for _, c := range cities {
		country.AddCity(&entity.City{ID: c.id, Name: c.name})
	}
	return country
}

// loadCity devuelve la ciudad enlazada a su país cargado; nil si no existe.
func (st *state) loadCity(id int64) *entity.City {
	row, ok := st.cities[id]
	if !ok {
		return nil
	}
	if country := st.loadCountry(row.countryID); country != nil {
		for _, c := range country.Cities() {
			if c.ID == id {
				return c
			}
		}
	}
	return &entity.City{ID: row.id, Name: row.name}
}
