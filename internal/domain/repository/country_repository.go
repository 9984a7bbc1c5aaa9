package repository

import (
	"context"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
)

// CountryRepository puerto de solo lectura para países.
type CountryRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Country, error)
	List(ctx context.Context) ([]*entity.Country, error)
}
