package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
)

const freeShippingCode = "freeshipping"

// Assembler accumulates the pieces of one order-creation request and
// commits them into a local order. It lives for a single import and is
// abandoned on failure.
type Assembler struct {
	scope           config.StoreScope
	customer        *domain.Customer
	billing         *domain.Address
	shipping        *domain.Address
	shippingMethod  string
	shippingCarrier string
	shippingCost    decimal.Decimal
	discountAmount  decimal.Decimal
	interestAmount  decimal.Decimal
	comment         string
	orderNumber     string
	matches         []domain.ProductMatch
}

func NewAssembler(scope config.StoreScope) *Assembler {
	return &Assembler{scope: scope}
}

func (a *Assembler) SetCustomer(customer *domain.Customer) *Assembler {
	a.customer = customer
	return a
}

// SetShippingMethod records what the marketplace reported. Whether it ends
// up on the order depends on the store's shipping policy.
func (a *Assembler) SetShippingMethod(method, carrier string, cost decimal.Decimal) *Assembler {
	a.shippingMethod = method
	a.shippingCarrier = carrier
	a.shippingCost = cost
	return a
}

func (a *Assembler) SetDiscountAmount(amount decimal.Decimal) *Assembler {
	a.discountAmount = amount
	return a
}

func (a *Assembler) SetInterestAmount(amount decimal.Decimal) *Assembler {
	a.interestAmount = amount
	return a
}

func (a *Assembler) SetComment(comment string) *Assembler {
	a.comment = comment
	return a
}

// SetOrderNumber forces the order number instead of letting the platform
// allocate one.
func (a *Assembler) SetOrderNumber(number string) *Assembler {
	a.orderNumber = number
	return a
}

func (a *Assembler) AddOrderAddress(address *domain.Address, role domain.AddressRole) *Assembler {
	switch role {
	case domain.AddressRoleBilling:
		a.billing = address
	case domain.AddressRoleShipping:
		a.shipping = address
	}
	return a
}

func (a *Assembler) AddProduct(match domain.ProductMatch) *Assembler {
	a.matches = append(a.matches, match)
	return a
}

// Create builds the order. It fails with ErrEmptyProductSet when no line
// item was accumulated. Billing and shipping addresses fall back to each
// other symmetrically when only one is present.
func (a *Assembler) Create() (*domain.Order, error) {
	if len(a.matches) == 0 {
		return nil, ErrEmptyProductSet
	}

	billing, shipping := a.billing, a.shipping
	if billing == nil {
		billing = shipping
	}
	if shipping == nil {
		shipping = a.billing
	}

	method, carrier := a.shippingMethod, a.shippingCarrier
	if a.scope.ShippingPolicy == config.ShippingFixedFree {
		method, carrier = freeShippingCode, freeShippingCode
	}

	order := &domain.Order{
		Number:           a.orderNumber,
		StoreID:          a.scope.StoreID,
		Status:           domain.OrderStatusPending,
		BillingAddress:   billing,
		ShippingAddress:  shipping,
		ShippingCarrier:  carrier,
		ShippingMethod:   method,
		ShippingCost:     a.shippingCost,
		DiscountAmount:   a.discountAmount,
		InterestAmount:   a.interestAmount,
		PaymentMethod:    a.scope.PaymentMethod,
		Comment:          a.comment,
		SendConfirmation: false,
		CreatedAt:        time.Now().UTC(),
	}

	if a.customer != nil {
		order.CustomerID = a.customer.ID
	}

	total := decimal.Zero
	for _, match := range a.matches {
		item := domain.OrderItem{
			ProductID:    match.ProductID,
			SKU:          match.SKU,
			Qty:          match.Qty,
			Price:        match.Price,
			SpecialPrice: match.SpecialPrice,
			FinalPrice:   match.FinalPrice,
		}
		if match.Child != nil {
			item.ChildProductID = match.Child.ProductID
			item.ChildSKU = match.Child.SKU
		}
		order.Items = append(order.Items, item)
		total = total.Add(match.RowTotal())
	}

	order.GrandTotal = total.
		Add(a.shippingCost).
		Sub(a.discountAmount).
		Add(a.interestAmount)

	return order, nil
}
