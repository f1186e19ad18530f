package customers

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bittools/skyhub-importer/internal/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByEmail returns the customer owning the email within the website
// scope, with all their addresses, or (nil, nil) when no such customer
// exists.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string, websiteID int64) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var defaultBilling, defaultShipping sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, website_id, email, first_name, middle_name, last_name,
		       date_of_birth, gender, phone, taxvat_id,
		       default_billing_id, default_shipping_id
		FROM customers
		WHERE email = $1 AND website_id = $2
	`, email, websiteID).Scan(
		&customer.ID, &customer.WebsiteID, &customer.Email,
		&customer.FirstName, &customer.MiddleName, &customer.LastName,
		&customer.DateOfBirth, &customer.Gender, &customer.Phone, &customer.TaxvatID,
		&defaultBilling, &defaultShipping)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	customer.DefaultBillingID = defaultBilling.String
	customer.DefaultShippingID = defaultShipping.String

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, street, city, region, postcode, country_id, phone
		FROM customer_addresses
		WHERE customer_id = $1
		ORDER BY created_at
	`, customer.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		address := &domain.Address{}
		if err := rows.Scan(&address.ID, &address.FirstName, &address.LastName,
			pq.Array(&address.Street), &address.City, &address.Region,
			&address.Postcode, &address.CountryID, &address.Phone); err != nil {
			return nil, err
		}
		customer.Addresses = append(customer.Addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customer, nil
}

// Save persists the customer and their address set in one transaction. An
// address shared by both roles is stored once.
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customers (id, website_id, email, first_name, middle_name, last_name,
		                       date_of_birth, gender, phone, taxvat_id,
		                       default_billing_id, default_shipping_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, customer.ID, customer.WebsiteID, customer.Email,
		customer.FirstName, customer.MiddleName, customer.LastName,
		customer.DateOfBirth, customer.Gender, customer.Phone, customer.TaxvatID,
		nullString(customer.DefaultBillingID), nullString(customer.DefaultShippingID))
	if err != nil {
		return nil, err
	}

	for _, address := range customer.Addresses {
		if address.ID == "" {
			address.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO customer_addresses (id, customer_id, first_name, last_name, street, city, region, postcode, country_id, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, address.ID, customer.ID, address.FirstName, address.LastName,
			pq.Array(address.Street), address.City, address.Region,
			address.Postcode, address.CountryID, address.Phone)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return customer, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
