package repository

import (
	"context"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
)

// CityRepository puerto de solo lectura para ciudades. La ciudad devuelta trae su Country cargado.
type CityRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.City, error)
	ListByCountry(ctx context.Context, countryID int64) ([]*entity.City, error)
}
