package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

var (
	_ repository.CityRepository    = (*CityRepo)(nil)
	_ repository.CountryRepository = (*CountryRepo)(nil)
)

// CityRepo implementación de CityRepository (solo lectura).
type CityRepo struct {
	q Querier
}

// NewCityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCityRepository(q Querier) *CityRepo {
	return &CityRepo{q: q}
}

// FindByID obtiene la ciudad con su país; nil si no existe.
func (r *CityRepo) FindByID(ctx context.Context, id int64) (*entity.City, error) {
	var (
		city    entity.City
		country entity.Country
	)
	err := r.q.QueryRow(ctx, `
		SELECT ci.id, ci.name, co.id, co.name
		FROM cities ci JOIN countries co ON co.id = ci.country_id
		WHERE ci.id = $1`, id,
	).Scan(&city.ID, &city.Name, &country.ID, &country.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get city: %w", err)
	}
	country.AddCity(&city)
	return &city, nil
}

// ListByCountry lista las ciudades del país ordenadas por nombre.
func (r *CityRepo) ListByCountry(ctx context.Context, countryID int64) ([]*entity.City, error) {
	country, err := NewCountryRepository(r.q).FindByID(ctx, countryID)
	if err != nil || country == nil {
		return nil, err
	}
	return country.Cities(), nil
}

// CountryRepo implementación de CountryRepository (solo lectura).
type CountryRepo struct {
	q Querier
}

// NewCountryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountryRepository(q Querier) *CountryRepo {
	return &CountryRepo{q: q}
}

// FindByID obtiene el país con sus ciudades; nil si no existe.
func (r *CountryRepo) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	var country entity.Country
	err := r.q.QueryRow(ctx, `SELECT id, name FROM countries WHERE id = $1`, id).Scan(&country.ID, &country.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get country: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT id, name FROM cities WHERE country_id = $1 ORDER BY name, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		city := &entity.City{}
		if err := rows.Scan(&city.ID, &city.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		country.AddCity(city)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &country, nil
}

// List lista los países ordenados por nombre (sin ciudades).
func (r *CountryRepo) List(ctx context.Context) ([]*entity.Country, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM countries ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Country
	for rows.Next() {
		var c entity.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
