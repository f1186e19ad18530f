package domain

import "github.com/shopspring/decimal"

// ChildMatch identifies the specific variant SKU ordered under a
// parent/composite product.
type ChildMatch struct {
	ProductID string
	SKU       string
}

// ProductMatch pairs one marketplace line item with a local catalog
// product. FinalPrice is the special price when it is non-zero, the
// original price otherwise.
type ProductMatch struct {
	ProductID    string
	SKU          string
	Qty          float64
	Price        decimal.Decimal
	SpecialPrice decimal.Decimal
	FinalPrice   decimal.Decimal
	Child        *ChildMatch
}

// RowTotal is the line contribution to the order total.
func (m ProductMatch) RowTotal() decimal.Decimal {
	return m.FinalPrice.Mul(decimal.NewFromFloat(m.Qty))
}
