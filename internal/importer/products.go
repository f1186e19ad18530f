package importer

import (
	"context"
	"fmt"

	"github.com/bittools/skyhub-importer/internal/domain"
)

// matchItems resolves marketplace line items against the local catalog.
// The marketplace reports the parent (container) SKU as product_id and the
// ordered variant SKU as id. An item whose parent SKU has no local product
// is dropped, not an error: the order simply loses that line. Catalog
// errors, by contrast, abort the import.
func (p *Processor) matchItems(ctx context.Context, items []domain.Payload) ([]domain.ProductMatch, error) {
	var matches []domain.ProductMatch

	for _, item := range items {
		parentSKU := item.String("product_id")
		childSKU := item.String("id")

		qty := item.Float("qty")
		if qty == 0 {
			qty = 1
		}

		price := item.Decimal("original_price")
		specialPrice := item.Decimal("special_price")

		finalPrice := price
		if !specialPrice.IsZero() {
			finalPrice = specialPrice
		}

		productID, err := p.catalog.IDBySKU(ctx, parentSKU)
		if err != nil {
			return nil, fmt.Errorf("resolve sku %s: %w", parentSKU, err)
		}
		if productID == "" {
			p.logger.Warn("skipping item with no catalog match", "sku", parentSKU)
			continue
		}

		match := domain.ProductMatch{
			ProductID:    productID,
			SKU:          parentSKU,
			Qty:          qty,
			Price:        price,
			SpecialPrice: specialPrice,
			FinalPrice:   finalPrice,
		}

		if childSKU != "" {
			childID, err := p.catalog.IDBySKU(ctx, childSKU)
			if err != nil {
				return nil, fmt.Errorf("resolve child sku %s: %w", childSKU, err)
			}
			if childID != "" {
				match.Child = &domain.ChildMatch{ProductID: childID, SKU: childSKU}
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}
