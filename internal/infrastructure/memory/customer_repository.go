package memory

import (
	"context"

	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	do access
}

// Save inserta (ID == 0) o actualiza el cliente y reemplaza sus filas hijas.
// Asigna IDs al cliente y a cada móvil y dirección.
func (r *CustomerRepo) Save(ctx context.Context, c *entity.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.do(func(st *state) error {
		if other, ok := st.customerByNIC(c.NIC); ok && other.id != c.ID {
			return &domain.DuplicateNICError{NIC: c.NIC}
		}
		if c.ID != 0 {
			if _, ok := st.customers[c.ID]; !ok {
				return &domain.NotFoundError{Kind: domain.KindCustomer, ID: c.ID}
			}
		}

		// Validar FKs antes de escribir nada.
		addresses := c.Addresses()
		for _, a := range addresses {
			if a.City != nil {
				if _, ok := st.cities[a.City.ID]; !ok {
					return &domain.ReferenceNotFoundError{Kind: domain.KindCity, ID: a.City.ID}
				}
			}
			if a.Country != nil {
				if _, ok := st.countries[a.Country.ID]; !ok {
					return &domain.ReferenceNotFoundError{Kind: domain.KindCountry, ID: a.Country.ID}
				}
			}
		}
		members := c.FamilyMembers()
		for _, m := range members {
			if _, ok := st.customers[m.ID]; !ok && (c.ID == 0 || m.ID != c.ID) {
				return &domain.ReferenceNotFoundError{Kind: domain.KindFamilyMember, ID: m.ID}
			}
		}

		if c.ID == 0 {
			st.seq.customer++
			c.ID = st.seq.customer
		}
		st.customers[c.ID] = customerRow{id: c.ID, name: c.Name, dateOfBirth: c.DateOfBirth, nic: c.NIC}

		mobiles := make([]mobileRow, 0, len(c.MobileNumbers()))
		for _, m := range c.MobileNumbers() {
			st.seq.mobile++
			m.ID = st.seq.mobile
			mobiles = append(mobiles, mobileRow{id: m.ID, number: m.Number})
		}
		st.mobiles[c.ID] = mobiles

		rows := make([]addressRow, 0, len(addresses))
		for _, a := range addresses {
			st.seq.address++
			a.ID = st.seq.address
			row := addressRow{id: a.ID, line1: a.Line1, line2: a.Line2}
			if a.City != nil {
				id := a.City.ID
				row.cityID = &id
			}
			if a.Country != nil {
				id := a.Country.ID
				row.countryID = &id
			}
			rows = append(rows, row)
		}
		st.addresses[c.ID] = rows

		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		st.family[c.ID] = ids
		return nil
	})
}

// FindByID carga el agregado completo. Los familiares vienen sin sus hijos.
func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Customer
	err := r.do(func(st *state) error {
		if row, ok := st.customers[id]; ok {
			out = st.loadCustomer(row)
		}
		return nil
	})
	return out, err
}

// FindByNIC carga el agregado por NIC; nil si no existe.
func (r *CustomerRepo) FindByNIC(ctx context.Context, nic string) (*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *entity.Customer
	err := r.do(func(st *state) error {
		if row, ok := st.customerByNIC(nic); ok {
			out = st.loadCustomer(row)
		}
		return nil
	})
	return out, err
}

// ExistsByNIC informa si el NIC ya está registrado.
func (r *CustomerRepo) ExistsByNIC(ctx context.Context, nic string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var exists bool
	err := r.do(func(st *state) error {
		_, exists = st.customerByNIC(nic)
		return nil
	})
	return exists, err
}

// FindAll lista todos los clientes por ID ascendente.
func (r *CustomerRepo) FindAll(ctx context.Context) ([]*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Customer
	err := r.do(func(st *state) error {
		for _, id := range sortedIDs(st.customers) {
			list = append(list, st.loadCustomer(st.customers[id]))
		}
		return nil
	})
	return list, err
}

// Delete elimina el cliente, sus móviles y direcciones, y los enlaces familiares en
// ambos sentidos. Los clientes enlazados no se eliminan.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.do(func(st *state) error {
		delete(st.customers, id)
		delete(st.mobiles, id)
		delete(st.addresses, id)
		delete(st.family, id)
		for owner, ids := range st.family {
			kept := ids[:0]
			for _, member := range ids {
				if member != id {
					kept = append(kept, member)
				}
			}
			st.family[owner] = kept
		}
		return nil
	})
}

// loadCustomer reconstruye el agregado desde las filas.
func (st *state) loadCustomer(row customerRow) *entity.Customer {
	c := row.toEntity()
	for _, m := range st.mobiles[row.id] {
		_ = c.AttachMobileNumber(&entity.MobileNumber{ID: m.id, Number: m.number})
	}
	for _, a := range st.addresses[row.id] {
		addr := &entity.Address{ID: a.id, Line1: a.line1, Line2: a.line2}
		if a.cityID != nil {
			addr.City = st.loadCity(*a.cityID)
		}
		if a.countryID != nil {
			addr.Country = st.loadCountry(*a.countryID)
		}
		_ = c.AttachAddress(addr)
	}
	for _, memberID := range st.family[row.id] {
		if member, ok := st.customers[memberID]; ok {
			_ = c.AttachFamilyMember(member.toEntity())
		}
	}
	return c
}

func (row customerRow) toEntity() *entity.Customer {
	return &entity.Customer{ID: row.id, Name: row.name, DateOfBirth: row.dateOfBirth, NIC: row.nic}
}
