package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const selectCustomer = `SELECT id, name, date_of_birth, nic FROM customers`

// Save inserta (ID == 0) o actualiza el cliente y reemplaza móviles, direcciones y enlaces
// familiares. Todo ocurre en una tx (o savepoint si q ya es una tx).
func (r *CustomerRepo) Save(ctx context.Context, c *entity.Customer) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if err := saveRoot(ctx, tx, c); err != nil {
			return err
		}
		if err := saveMobileNumbers(ctx, tx, c); err != nil {
			return err
		}
		if err := saveAddresses(ctx, tx, c); err != nil {
			return err
		}
		return saveFamilyMembers(ctx, tx, c)
	})
}

func saveRoot(ctx context.Context, tx pgx.Tx, c *entity.Customer) error {
	var err error
	if c.ID == 0 {
		err = tx.QueryRow(ctx,
			`INSERT INTO customers (name, date_of_birth, nic) VALUES ($1, $2, $3) RETURNING id`,
			c.Name, c.DateOfBirth, c.NIC,
		).Scan(&c.ID)
	} else {
		tag, uerr := tx.Exec(ctx,
			`UPDATE customers SET name = $2, date_of_birth = $3, nic = $4 WHERE id = $1`,
			c.ID, c.Name, c.DateOfBirth, c.NIC,
		)
		if uerr == nil && tag.RowsAffected() == 0 {
			return &domain.NotFoundError{Kind: domain.KindCustomer, ID: c.ID}
		}
		err = uerr
	}
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == constraintCustomerNIC {
			return &domain.DuplicateNICError{NIC: c.NIC}
		}
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func saveMobileNumbers(ctx context.Context, tx pgx.Tx, c *entity.Customer) error {
	if _, err := tx.Exec(ctx, `DELETE FROM mobile_numbers WHERE customer_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete mobile numbers: %w", err)
	}
	for _, m := range c.MobileNumbers() {
		err := tx.QueryRow(ctx,
			`INSERT INTO mobile_numbers (number, customer_id) VALUES ($1, $2) RETURNING id`,
			m.Number, c.ID,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert mobile number: %w", err)
		}
	}
	return nil
}

func saveAddresses(ctx context.Context, tx pgx.Tx, c *entity.Customer) error {
	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE customer_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	for _, a := range c.Addresses() {
		var cityID, countryID *int64
		if a.City != nil {
			cityID = &a.City.ID
		}
		if a.Country != nil {
			countryID = &a.Country.ID
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO addresses (address_line1, address_line2, city_id, country_id, customer_id)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			a.Line1, a.Line2, cityID, countryID, c.ID,
		).Scan(&a.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				switch constraintName(err) {
				case constraintAddressCity:
					return &domain.ReferenceNotFoundError{Kind: domain.KindCity, ID: *cityID}
				case constraintAddressCountry:
					return &domain.ReferenceNotFoundError{Kind: domain.KindCountry, ID: *countryID}
				}
			}
			return fmt.Errorf("insert address: %w", err)
		}
	}
	return nil
}

func saveFamilyMembers(ctx context.Context, tx pgx.Tx, c *entity.Customer) error {
	if _, err := tx.Exec(ctx, `DELETE FROM customer_family_members WHERE customer_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete family members: %w", err)
	}
	for i, fm := range c.FamilyMembers() {
		_, err := tx.Exec(ctx,
			`INSERT INTO customer_family_members (customer_id, family_member_id, position) VALUES ($1, $2, $3)`,
			c.ID, fm.ID, i,
		)
		if err != nil {
			if isForeignKeyViolation(err) && constraintName(err) == constraintFamilyMember {
				return &domain.ReferenceNotFoundError{Kind: domain.KindFamilyMember, ID: fm.ID}
			}
			return fmt.Errorf("insert family member: %w", err)
		}
	}
	return nil
}

// FindByID carga el agregado completo; nil si no existe. Los familiares vienen sin sus hijos.
func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.findOne(ctx, selectCustomer+` WHERE id = $1`, id)
}

// FindByNIC carga el agregado por NIC; nil si no existe.
func (r *CustomerRepo) FindByNIC(ctx context.Context, nic string) (*entity.Customer, error) {
	return r.findOne(ctx, selectCustomer+` WHERE nic = $1`, nic)
}

func (r *CustomerRepo) findOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.DateOfBirth, &c.NIC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if err := r.loadChildren(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsByNIC informa si el NIC ya está registrado.
func (r *CustomerRepo) ExistsByNIC(ctx context.Context, nic string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE nic = $1)`, nic).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists customer by nic: %w", err)
	}
	return exists, nil
}

// FindAll lista todos los clientes en orden de inserción.
func (r *CustomerRepo) FindAll(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, selectCustomer+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	list, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	// Los hijos se cargan después de cerrar rows: una tx no admite consultas intercaladas.
	for _, c := range list {
		if err := r.loadChildren(ctx, c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete elimina el cliente. Móviles, direcciones y enlaces familiares (en ambos sentidos)
// caen por ON DELETE CASCADE; ciudades, países y otros clientes no se tocan.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) loadChildren(ctx context.Context, c *entity.Customer) error {
	if err := r.loadMobileNumbers(ctx, c); err != nil {
		return err
	}
	if err := r.loadAddresses(ctx, c); err != nil {
		return err
	}
	return r.loadFamilyMembers(ctx, c)
}

func (r *CustomerRepo) loadMobileNumbers(ctx context.Context, c *entity.Customer) error {
	rows, err := r.q.Query(ctx, `SELECT id, number FROM mobile_numbers WHERE customer_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("list mobile numbers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m := &entity.MobileNumber{}
		if err := rows.Scan(&m.ID, &m.Number); err != nil {
			return fmt.Errorf("scan mobile number: %w", err)
		}
		if err := c.AttachMobileNumber(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *CustomerRepo) loadAddresses(ctx context.Context, c *entity.Customer) error {
	query := `
		SELECT a.id, a.address_line1, a.address_line2,
		       ci.id, ci.name, cc.id, cc.name,
		       co.id, co.name
		FROM addresses a
		LEFT JOIN cities ci ON ci.id = a.city_id
		LEFT JOIN countries cc ON cc.id = ci.country_id
		LEFT JOIN countries co ON co.id = a.country_id
		WHERE a.customer_id = $1
		ORDER BY a.id`
	rows, err := r.q.Query(ctx, query, c.ID)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a := &entity.Address{}
		var (
			cityID, cityCountryID, countryID       *int64
			cityName, cityCountryName, countryName *string
		)
		if err := rows.Scan(&a.ID, &a.Line1, &a.Line2,
			&cityID, &cityName, &cityCountryID, &cityCountryName,
			&countryID, &countryName,
		); err != nil {
			return fmt.Errorf("scan address: %w", err)
		}
		if cityID != nil {
			a.City = &entity.City{ID: *cityID, Name: deref(cityName)}
			if cityCountryID != nil {
				(&entity.Country{ID: *cityCountryID, Name: deref(cityCountryName)}).AddCity(a.City)
			}
		}
		if countryID != nil {
			a.Country = &entity.Country{ID: *countryID, Name: deref(countryName)}
		}
		if err := c.AttachAddress(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *CustomerRepo) loadFamilyMembers(ctx context.Context, c *entity.Customer) error {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.name, m.date_of_birth, m.nic
		FROM customer_family_members f
		JOIN customers m ON m.id = f.family_member_id
		WHERE f.customer_id = $1
		ORDER BY f.position`, c.ID)
	if err != nil {
		return fmt.Errorf("list family members: %w", err)
	}
	members, err := scanCustomers(rows)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := c.AttachFamilyMember(m); err != nil {
			return err
		}
	}
	return nil
}

// scanCustomers lee filas (id, name, date_of_birth, nic) y cierra rows.
func scanCustomers(rows pgx.Rows) ([]*entity.Customer, error) {
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.DateOfBirth, &c.NIC); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
