package repository

import (
	"context"

	"github.com/jhoicas/customer-registry/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para el agregado Customer.
// Los métodos de búsqueda devuelven (nil, nil) si el cliente no existe.
type CustomerRepository interface {
	// Save inserta (ID == 0) o actualiza el cliente junto con sus móviles, direcciones
	// y enlaces familiares. Los hijos que ya no están en las colecciones se eliminan.
	// Un NIC repetido devuelve *domain.DuplicateNICError.
	Save(ctx context.Context, customer *entity.Customer) error
	FindByID(ctx context.Context, id int64) (*entity.Customer, error)
	FindByNIC(ctx context.Context, nic string) (*entity.Customer, error)
	ExistsByNIC(ctx context.Context, nic string) (bool, error)
	// FindAll devuelve todos los clientes en orden de inserción.
	FindAll(ctx context.Context) ([]*entity.Customer, error)
	// Delete elimina el cliente, sus hijos y los enlaces familiares en ambos sentidos.
	Delete(ctx context.Context, id int64) error
}
