package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
	"github.com/jhoicas/customer-registry/pkg/logger"
)

// CustomerUseCase fachada del repositorio de clientes: crea, actualiza, lee, lista y elimina
// el agregado. Cada escritura es una sola transacción (raíz + hijos).
type CustomerUseCase struct {
	tx   TxRunner
	repo repository.CustomerRepository
	log  *logger.Logger
}

// NewCustomerUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewCustomerUseCase(tx TxRunner, repo repository.CustomerRepository, log *logger.Logger) *CustomerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CustomerUseCase{tx: tx, repo: repo, log: log}
}

// Create crea el cliente. Si el NIC ya existe retorna *domain.DuplicateNICError.
// La verificación previa es solo una salida temprana: la restricción única del
// almacenamiento decide en caso de carrera y Save devuelve el mismo error tipado.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRecord) (*dto.CustomerRecord, error) {
	if err := requireFields(in); err != nil {
		return nil, err
	}
	var out dto.CustomerRecord
	err := uc.tx.Run(ctx, func(
		customerRepo repository.CustomerRepository,
		cityRepo repository.CityRepository,
		countryRepo repository.CountryRepository,
	) error {
		exists, err := customerRepo.ExistsByNIC(ctx, in.NIC)
		if err != nil {
			return err
		}
		if exists {
			return &domain.DuplicateNICError{NIC: in.NIC}
		}
		customer, err := NewMapper(customerRepo, cityRepo, countryRepo).ToAggregate(ctx, in)
		if err != nil {
			return err
		}
		if err := customerRepo.Save(ctx, customer); err != nil {
			return err
		}
		out = ToRecord(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", out.ID).Str("nic", out.NIC).Msg("cliente creado")
	return &out, nil
}

// Update reemplaza por completo móviles, direcciones y familiares del cliente.
// Solo si el NIC cambia se vuelve a verificar la unicidad contra otros clientes.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.CustomerRecord) (*dto.CustomerRecord, error) {
	if err := requireFields(in); err != nil {
		return nil, err
	}
	var out dto.CustomerRecord
	err := uc.tx.Run(ctx, func(
		customerRepo repository.CustomerRepository,
		cityRepo repository.CityRepository,
		countryRepo repository.CountryRepository,
	) error {
		customer, err := customerRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
		}
		if customer.NIC != in.NIC {
			other, err := customerRepo.FindByNIC(ctx, in.NIC)
			if err != nil {
				return err
			}
			if other != nil && other.ID != id {
				return &domain.DuplicateNICError{NIC: in.NIC}
			}
		}

		// Los hijos anteriores se liberan (no se fusionan); Save elimina sus filas.
		customer.DetachMobileNumbers()
		customer.DetachAddresses()
		customer.ClearFamilyMembers()

		if err := NewMapper(customerRepo, cityRepo, countryRepo).Populate(ctx, in, customer); err != nil {
			return err
		}
		if err := customerRepo.Save(ctx, customer); err != nil {
			return err
		}
		out = ToRecord(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", id).Msg("cliente actualizado")
	return &out, nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id int64) (*dto.CustomerRecord, error) {
	customer, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
	}
	out := ToRecord(customer)
	return &out, nil
}

// List lista todos los clientes en el orden del almacenamiento (inserción).
func (uc *CustomerUseCase) List(ctx context.Context) ([]dto.CustomerRecord, error) {
	list, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerRecord, 0, len(list))
	for _, c := range list {
		out = append(out, ToRecord(c))
	}
	return out, nil
}

// Delete elimina el cliente y en cascada sus móviles y direcciones.
// Ciudades, países y los clientes enlazados como familiares no se eliminan.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.tx.Run(ctx, func(
		customerRepo repository.CustomerRepository,
		_ repository.CityRepository,
		_ repository.CountryRepository,
	) error {
		customer, err := customerRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return &domain.NotFoundError{Kind: domain.KindCustomer, ID: id}
		}
		return customerRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("customer_id", id).Msg("cliente eliminado")
	return nil
}

// ExistsByNIC informa si ya hay un cliente con ese NIC (verificación previa de la carga masiva).
func (uc *CustomerUseCase) ExistsByNIC(ctx context.Context, nic string) (bool, error) {
	return uc.repo.ExistsByNIC(ctx, nic)
}

// requireFields exige las columnas NOT NULL del esquema (name, date_of_birth, nic).
func requireFields(in dto.CustomerRecord) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.DateOfBirth.IsZero() {
		missing = append(missing, "dateOfBirth")
	}
	if strings.TrimSpace(in.NIC) == "" {
		missing = append(missing, "nic")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
