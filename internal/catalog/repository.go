package catalog

import (
	"context"
	"database/sql"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// IDBySKU resolves a SKU to the local product id, or ("", nil) when no
// product carries the SKU.
func (r *ProductRepository) IDBySKU(ctx context.Context, sku string) (string, error) {
	var id string

	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM products WHERE sku = $1
	`, sku).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}

	return id, nil
}
