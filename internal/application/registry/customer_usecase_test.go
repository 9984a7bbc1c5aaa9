package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/infrastructure/memory"
	"github.com/jhoicas/customer-registry/pkg/logger"
)

type fixture struct {
	store   *memory.Store
	uc      *registry.CustomerUseCase
	country *entity.Country
	city    *entity.City
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	lk, err := store.SeedCountry("Sri Lanka", "Colombo")
	require.NoError(t, err)
	return &fixture{
		store:   store,
		uc:      registry.NewCustomerUseCase(store, store.Customers(), logger.Nop()),
		country: lk,
		city:    lk.Cities()[0],
	}
}

func ptr(v int64) *int64 { return &v }

func record(name, nic string) dto.CustomerRecord {
	return dto.CustomerRecord{Name: name, NIC: nic, DateOfBirth: dto.NewDate(1990, time.May, 3)}
}

func TestCreate_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("Ana Perera", "901234567V")
	in.MobileNumbers = []string{"0771", "0772"}
	in.Addresses = []dto.AddressRecord{
		{AddressLine1: "12 Main St", AddressLine2: "Apt 4", CityID: ptr(f.city.ID), CountryID: ptr(f.country.ID)},
		{AddressLine1: "PO Box 9"},
	}

	created, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := f.uc.Get(ctx, created.ID)
	require.NoError(t, err)

	want := in
	want.ID = created.ID
	want.FamilyMemberIDs = []int64{}
	assert.Equal(t, want, *got)
	assert.Equal(t, *created, *got)
}

func TestCreate_NICDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, record("Ana", "X1"))
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, record("Otra", "X1"))
	var dup *domain.DuplicateNICError
	require.ErrorAs(t, err, &dup)
	assert.EqualError(t, err, "Customer with NIC X1 already exists")

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_CamposObligatorios(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), dto.CustomerRecord{NIC: "X1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "dateOfBirth")
}

func TestCreate_ReferenciaInexistenteNoPersisteNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("Ana", "X1")
	in.MobileNumbers = []string{"0771"}
	in.Addresses = []dto.AddressRecord{{AddressLine1: "l1", CityID: ptr(99)}}

	_, err := f.uc.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.EqualError(t, err, "City not found with id: 99")

	exists, err := f.uc.ExistsByNIC(ctx, "X1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreate_PaisYFamiliarInexistentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("Ana", "X1")
	in.Addresses = []dto.AddressRecord{{CountryID: ptr(42)}}
	_, err := f.uc.Create(ctx, in)
	assert.EqualError(t, err, "Country not found with id: 42")

	in = record("Ana", "X1")
	in.FamilyMemberIDs = []int64{7}
	_, err = f.uc.Create(ctx, in)
	assert.EqualError(t, err, "Family member not found with id: 7")
}

func TestFamiliares_EnlaceDirigido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.uc.Create(ctx, record("B", "B1"))
	require.NoError(t, err)
	in := record("A", "A1")
	in.FamilyMemberIDs = []int64{b.ID}
	a, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, a.FamilyMemberIDs)

	gotB, err := f.uc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, gotB.FamilyMemberIDs)
}

func TestUpdate_ReemplazaHijos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("Ana", "X1")
	in.MobileNumbers = []string{"0771", "0772"}
	in.Addresses = []dto.AddressRecord{{AddressLine1: "vieja"}}
	created, err := f.uc.Create(ctx, in)
	require.NoError(t, err)

	upd := record("Ana María", "X1")
	upd.MobileNumbers = []string{"0779"}
	upd.Addresses = []dto.AddressRecord{{AddressLine1: "nueva", CityID: ptr(f.city.ID)}}
	out, err := f.uc.Update(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, out.ID)

	got, err := f.uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, []string{"0779"}, got.MobileNumbers)
	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "nueva", got.Addresses[0].AddressLine1)
	assert.Equal(t, f.city.ID, *got.Addresses[0].CityID)
}

func TestUpdate_NICDeOtroClienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, record("Otro", "X2"))
	require.NoError(t, err)
	in := record("Ana", "X1")
	in.MobileNumbers = []string{"0771"}
	ana, err := f.uc.Create(ctx, in)
	require.NoError(t, err)

	upd := record("Ana", "X2")
	upd.MobileNumbers = []string{"0999"}
	_, err = f.uc.Update(ctx, ana.ID, upd)
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.EqualError(t, err, "Customer with NIC X2 already exists")

	got, err := f.uc.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "X1", got.NIC)
	assert.Equal(t, []string{"0771"}, got.MobileNumbers)
}

func TestUpdate_ReferenciaInexistenteHaceRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("Ana", "X1")
	in.MobileNumbers = []string{"0771"}
	ana, err := f.uc.Create(ctx, in)
	require.NoError(t, err)

	upd := record("Cambiado", "X1")
	upd.FamilyMemberIDs = []int64{404}
	_, err = f.uc.Update(ctx, ana.ID, upd)
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)

	got, err := f.uc.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, []string{"0771"}, got.MobileNumbers)
}

func TestUpdate_Inexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Update(context.Background(), 77, record("Ana", "X1"))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.EqualError(t, err, "Customer not found with id: 77")
}

func TestDelete_CascadaSinTocarReferenciasNiFamiliares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := record("A", "A1")
	in.MobileNumbers = []string{"0771"}
	in.Addresses = []dto.AddressRecord{{AddressLine1: "l1", CityID: ptr(f.city.ID), CountryID: ptr(f.country.ID)}}
	a, err := f.uc.Create(ctx, in)
	require.NoError(t, err)

	other := record("B", "B1")
	other.FamilyMemberIDs = []int64{a.ID}
	b, err := f.uc.Create(ctx, other)
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, a.ID))

	_, err = f.uc.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	gotB, err := f.uc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, gotB.FamilyMemberIDs)

	city, err := f.store.Cities().FindByID(ctx, f.city.ID)
	require.NoError(t, err)
	assert.NotNil(t, city)
	country, err := f.store.Countries().FindByID(ctx, f.country.ID)
	require.NoError(t, err)
	assert.NotNil(t, country)

	exists, err := f.uc.ExistsByNIC(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelete_Inexistente(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_OrdenDeInsercion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	for _, nic := range []string{"C", "A", "B"} {
		_, err := f.uc.Create(ctx, record("x", nic))
		require.NoError(t, err)
	}
	list, err = f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].NIC)
	assert.Equal(t, "B", list[2].NIC)
}
