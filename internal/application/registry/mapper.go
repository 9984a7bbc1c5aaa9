package registry

import (
	"context"
	"fmt"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

// Mapper convierte entre el registro plano y el grafo del agregado, resolviendo
// ciudad, país y familiares contra los repositorios recibidos (normalmente atados a una tx).
type Mapper struct {
	customers repository.CustomerRepository
	cities    repository.CityRepository
	countries repository.CountryRepository
}

// NewMapper construye el mapper.
func NewMapper(
	customers repository.CustomerRepository,
	cities repository.CityRepository,
	countries repository.CountryRepository,
) *Mapper {
	return &Mapper{customers: customers, cities: cities, countries: countries}
}

// ToAggregate construye un Customer nuevo (sin ID) a partir del registro.
// Cualquier referencia que no resuelve aborta la conversión completa con *domain.ReferenceNotFoundError.
func (m *Mapper) ToAggregate(ctx context.Context, rec dto.CustomerRecord) (*entity.Customer, error) {
	c := &entity.Customer{}
	if err := m.Populate(ctx, rec, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Populate copia el registro sobre c. c no debe tener hijos: el caller los libera antes
// con DetachMobileNumbers/DetachAddresses/ClearFamilyMembers.
func (m *Mapper) Populate(ctx context.Context, rec dto.CustomerRecord, c *entity.Customer) error {
	c.Name = rec.Name
	c.DateOfBirth = rec.DateOfBirth.Time
	c.NIC = rec.NIC

	for _, number := range rec.MobileNumbers {
		if err := c.AttachMobileNumber(entity.NewMobileNumber(number)); err != nil {
			return err
		}
	}

	for _, ar := range rec.Addresses {
		addr := entity.NewAddress(ar.AddressLine1, ar.AddressLine2)
		if ar.CityID != nil {
			city, err := m.cities.FindByID(ctx, *ar.CityID)
			if err != nil {
				return fmt.Errorf("buscar ciudad %d: %w", *ar.CityID, err)
			}
			if city == nil {
				return &domain.ReferenceNotFoundError{Kind: domain.KindCity, ID: *ar.CityID}
			}
			addr.City = city
		}
		if ar.CountryID != nil {
			country, err := m.countries.FindByID(ctx, *ar.CountryID)
			if err != nil {
				return fmt.Errorf("buscar país %d: %w", *ar.CountryID, err)
			}
			if country == nil {
				return &domain.ReferenceNotFoundError{Kind: domain.KindCountry, ID: *ar.CountryID}
			}
			addr.Country = country
		}
		if err := c.AttachAddress(addr); err != nil {
			return err
		}
	}

	for _, id := range rec.FamilyMemberIDs {
		member, err := m.customers.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("buscar familiar %d: %w", id, err)
		}
		if member == nil {
			return &domain.ReferenceNotFoundError{Kind: domain.KindFamilyMember, ID: id}
		}
		if err := c.AttachFamilyMember(member); err != nil {
			return err
		}
	}
	return nil
}

// ToRecord aplana el agregado: móviles y familiares en el orden almacenado,
// direcciones con solo los IDs de ciudad y país (si están).
func ToRecord(c *entity.Customer) dto.CustomerRecord {
	rec := dto.CustomerRecord{
		ID:              c.ID,
		Name:            c.Name,
		DateOfBirth:     dto.Date{Time: c.DateOfBirth},
		NIC:             c.NIC,
		MobileNumbers:   []string{},
		Addresses:       []dto.AddressRecord{},
		FamilyMemberIDs: []int64{},
	}
	for _, mn := range c.MobileNumbers() {
		rec.MobileNumbers = append(rec.MobileNumbers, mn.Number)
	}
	for _, a := range c.Addresses() {
		ar := dto.AddressRecord{AddressLine1: a.Line1, AddressLine2: a.Line2}
		if a.City != nil {
			id := a.City.ID
			ar.CityID = &id
		}
		if a.Country != nil {
			id := a.Country.ID
			ar.CountryID = &id
		}
		rec.Addresses = append(rec.Addresses, ar)
	}
	for _, fm := range c.FamilyMembers() {
		rec.FamilyMemberIDs = append(rec.FamilyMemberIDs, fm.ID)
	}
	return rec
}
