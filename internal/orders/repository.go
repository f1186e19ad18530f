package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/bittools/skyhub-importer/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, number, store_id, customer_id, status,
	billing_address, shipping_address,
	shipping_carrier, shipping_method, shipping_cost,
	discount_amount, interest_amount, grand_total,
	payment_method, comment, send_confirmation,
	skyhub_imported, skyhub_code, skyhub_channel, skyhub_payload,
	created_at`

// Save persists the order and its items in one transaction, assigning the
// order id.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	billing, err := marshalAddress(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}
	shipping, err := marshalAddress(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()
	if order.Number == "" {
		order.Number = order.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`, order.ID, order.Number, order.StoreID, order.CustomerID, order.Status,
		billing, shipping,
		order.ShippingCarrier, order.ShippingMethod, order.ShippingCost,
		order.DiscountAmount, order.InterestAmount, order.GrandTotal,
		order.PaymentMethod, order.Comment, order.SendConfirmation,
		order.SkyhubImported, nullString(order.SkyhubCode), order.SkyhubChannel, []byte(order.SkyhubPayload),
		order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		itemID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, sku, qty, price, special_price, final_price, child_product_id, child_sku)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, itemID, order.ID, item.ProductID, item.SKU, item.Qty, item.Price, item.SpecialPrice, item.FinalPrice,
			nullString(item.ChildProductID), nullString(item.ChildSKU))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindByMarketplaceCode returns the order imported for a marketplace code,
// or (nil, nil) when the code was never imported. This is the idempotency
// gate lookup.
func (r *OrderRepository) FindByMarketplaceCode(ctx context.Context, code string) (*domain.Order, error) {
	return r.queryOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE skyhub_code = $1`, code)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.queryOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) queryOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	order := &domain.Order{}
	var billing, shipping, payload []byte
	var code sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&order.ID, &order.Number, &order.StoreID, &order.CustomerID, &order.Status,
		&billing, &shipping,
		&order.ShippingCarrier, &order.ShippingMethod, &order.ShippingCost,
		&order.DiscountAmount, &order.InterestAmount, &order.GrandTotal,
		&order.PaymentMethod, &order.Comment, &order.SendConfirmation,
		&order.SkyhubImported, &code, &order.SkyhubChannel, &payload,
		&order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	order.SkyhubCode = code.String
	order.SkyhubPayload = payload

	if order.BillingAddress, err = unmarshalAddress(billing); err != nil {
		return nil, fmt.Errorf("unmarshal billing address: %w", err)
	}
	if order.ShippingAddress, err = unmarshalAddress(shipping); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, sku, qty, price, special_price, final_price, child_product_id, child_sku
		FROM order_items
		WHERE order_id = $1
	`, order.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		var childID, childSKU sql.NullString
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.Qty, &item.Price, &item.SpecialPrice, &item.FinalPrice, &childID, &childSKU); err != nil {
			return nil, err
		}
		item.ChildProductID = childID.String
		item.ChildSKU = childSKU.String
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func marshalAddress(address *domain.Address) ([]byte, error) {
	if address == nil {
		return nil, nil
	}
	return json.Marshal(address)
}

func unmarshalAddress(raw []byte) (*domain.Address, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	address := &domain.Address{}
	if err := json.Unmarshal(raw, address); err != nil {
		return nil, err
	}
	return address, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
