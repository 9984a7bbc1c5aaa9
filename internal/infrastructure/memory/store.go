package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

var _ registry.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria con transacciones serializadas (copy-on-commit).
// Sirve para STORAGE_DRIVER=memory y para los tests.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn contra un estado: el publicado (tomando el lock) o el de una tx en curso.
type access func(fn func(st *state) error) error

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{do: s.locked} }

// Cities repositorio de ciudades fuera de transacción.
func (s *Store) Cities() *CityRepo { return &CityRepo{do: s.locked} }

// Countries repositorio de países fuera de transacción.
func (s *Store) Countries() *CountryRepo { return &CountryRepo{do: s.locked} }

// Run ejecuta fn con repositorios atados a una copia del estado. Si fn retorna error la
// copia se descarta; si no, reemplaza al estado publicado. Las transacciones no se solapan.
func (s *Store) Run(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	cityRepo repository.CityRepository,
	countryRepo repository.CountryRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	inTx := func(fn func(st *state) error) error { return fn(work) }

	if err := fn(&CustomerRepo{do: inTx}, &CityRepo{do: inTx}, &CountryRepo{do: inTx}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// SeedCountry carga un país con sus ciudades y devuelve el agregado con los IDs asignados.
func (s *Store) SeedCountry(name string, cities ...string) (*entity.Country, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: nombre de país vacío", domain.ErrInvalidInput)
	}
	var country *entity.Country
	err := s.locked(func(st *state) error {
		st.seq.country++
		row := countryRow{id: st.seq.country, name: name}
		st.countries[row.id] = row
		country = &entity.Country{ID: row.id, Name: row.name}
		for _, cityName := range cities {
			st.seq.city++
			cr := cityRow{id: st.seq.city, countryID: row.id, name: cityName}
			st.cities[cr.id] = cr
			country.AddCity(&entity.City{ID: cr.id, Name: cr.name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return country, nil
}

// DeleteCountry elimina el país y en cascada sus ciudades. Las direcciones que los
// referenciaban quedan sin ciudad/país (ON DELETE SET NULL).
func (s *Store) DeleteCountry(id int64) error {
	return s.locked(func(st *state) error {
		if _, ok := st.countries[id]; !ok {
			return &domain.NotFoundError{Kind: domain.KindCountry, ID: id}
		}
		delete(st.countries, id)
		removed := map[int64]bool{}
		for cid, c := range st.cities {
			if c.countryID == id {
				removed[cid] = true
				delete(st.cities, cid)
			}
		}
		for owner, rows := range st.addresses {
			for i := range rows {
				if rows[i].countryID != nil && *rows[i].countryID == id {
					rows[i].countryID = nil
				}
				if rows[i].cityID != nil && removed[*rows[i].cityID] {
					rows[i].cityID = nil
				}
			}
			st.addresses[owner] = rows
		}
		return nil
	})
}
