package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusComplete   OrderStatus = "complete"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	Qty            float64         `json:"qty"`
	Price          decimal.Decimal `json:"price"`
	SpecialPrice   decimal.Decimal `json:"special_price"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	ChildProductID string          `json:"child_product_id,omitempty"`
	ChildSKU       string          `json:"child_sku,omitempty"`
}

// Order is the local order record. Orders imported from the marketplace
// carry the SkyHub tag fields and a verbatim snapshot of the payload they
// were created from, so a disputed import can be audited or replayed.
type Order struct {
	ID               string          `json:"id"`
	Number           string          `json:"number"`
	StoreID          int64           `json:"store_id"`
	CustomerID       string          `json:"customer_id"`
	Status           OrderStatus     `json:"status"`
	BillingAddress   *Address        `json:"billing_address"`
	ShippingAddress  *Address        `json:"shipping_address"`
	ShippingCarrier  string          `json:"shipping_carrier"`
	ShippingMethod   string          `json:"shipping_method"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	PaymentMethod    string          `json:"payment_method"`
	Comment          string          `json:"comment,omitempty"`
	SendConfirmation bool            `json:"send_confirmation"`
	Items            []OrderItem     `json:"items"`
	SkyhubImported   bool            `json:"skyhub_imported"`
	SkyhubCode       string          `json:"skyhub_code,omitempty"`
	SkyhubChannel    string          `json:"skyhub_channel,omitempty"`
	SkyhubPayload    json.RawMessage `json:"-"`
	CreatedAt        time.Time       `json:"created_at"`
}
