package registry

import (
	"context"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

// ReferenceUseCase consultas de solo lectura sobre ciudades y países.
type ReferenceUseCase struct {
	cities    repository.CityRepository
	countries repository.CountryRepository
}

// NewReferenceUseCase construye el caso de uso.
func NewReferenceUseCase(cities repository.CityRepository, countries repository.CountryRepository) *ReferenceUseCase {
	return &ReferenceUseCase{cities: cities, countries: countries}
}

// ListCountries lista todos los países.
func (uc *ReferenceUseCase) ListCountries(ctx context.Context) ([]dto.CountryResponse, error) {
	list, err := uc.countries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CountryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// GetCountry obtiene un país por ID.
func (uc *ReferenceUseCase) GetCountry(ctx context.Context, id int64) (*dto.CountryResponse, error) {
	country, err := uc.countries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if country == nil {
		return nil, &domain.NotFoundError{Kind: domain.KindCountry, ID: id}
	}
	return &dto.CountryResponse{ID: country.ID, Name: country.Name}, nil
}

// ListCities lista las ciudades de un país existente.
func (uc *ReferenceUseCase) ListCities(ctx context.Context, countryID int64) ([]dto.CityResponse, error) {
	if _, err := uc.GetCountry(ctx, countryID); err != nil {
		return nil, err
	}
	list, err := uc.cities.ListByCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CityResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CityResponse{ID: c.ID, Name: c.Name, CountryID: countryID})
	}
	return out, nil
}

// GetCity obtiene una ciudad por ID.
func (uc *ReferenceUseCase) GetCity(ctx context.Context, id int64) (*dto.CityResponse, error) {
	city, err := uc.cities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, &domain.NotFoundError{Kind: domain.KindCity, ID: id}
	}
	out := &dto.CityResponse{ID: city.ID, Name: city.Name}
	if country := city.Country(); country != nil {
		out.CountryID = country.ID
	}
	return out, nil
}
