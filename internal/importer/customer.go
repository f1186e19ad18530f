package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
)

// resolveCustomer finds the customer owning the payload's email within the
// store's website scope, or creates one from the marketplace data. For an
// existing customer it also selects which of their addresses will be used
// on the order.
func (p *Processor) resolveCustomer(ctx context.Context, scope config.StoreScope, payload domain.Payload, book *addressBook) (*domain.Customer, error) {
	customerData := payload.Map("customer")
	email := customerData.String("email")

	customer, err := p.customers.GetByEmail(ctx, email, scope.WebsiteID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer %s: %w", email, err)
	}

	if customer != nil {
		selectOrderAddresses(customer, book)
		return customer, nil
	}

	return p.createCustomer(ctx, scope, payload, book)
}

// selectOrderAddresses scans the customer's addresses once. Addresses
// matching the default-billing or default-shipping id claim that role and
// scanning continues; the first address matching neither claims both roles
// and scanning stops. The early exit is deliberately asymmetric: several
// defaults may be claimed before a non-default address halts the loop.
func selectOrderAddresses(customer *domain.Customer, book *addressBook) {
	for _, address := range customer.Addresses {
		if customer.DefaultBillingID != "" && customer.DefaultBillingID == address.ID {
			book.push(address, domain.AddressRoleBilling)
			continue
		}

		if customer.DefaultShippingID != "" && customer.DefaultShippingID == address.ID {
			book.push(address, domain.AddressRoleShipping)
			continue
		}

		book.push(address, domain.AddressRoleBilling)
		book.push(address, domain.AddressRoleShipping)
		break
	}
}

func (p *Processor) createCustomer(ctx context.Context, scope config.StoreScope, payload domain.Payload, book *addressBook) (*domain.Customer, error) {
	customerData := payload.Map("customer")

	first, middle, last := breakName(customerData.String("name"))

	customer := &domain.Customer{
		ID:          uuid.New().String(),
		WebsiteID:   scope.WebsiteID,
		Email:       customerData.String("email"),
		FirstName:   first,
		MiddleName:  middle,
		LastName:    last,
		DateOfBirth: customerData.String("date_of_birth"),
		TaxvatID:    customerData.String("vat_number"),
	}

	switch customerData.String("gender") {
	case "male":
		customer.Gender = domain.GenderMale
	case "female":
		customer.Gender = domain.GenderFemale
	}

	if phones := customerData.Strings("phones"); len(phones) > 0 {
		customer.Phone = phones[0]
	}

	if err := p.attrs.ApplyCustomerAttributes(ctx, customerData, customer); err != nil {
		return nil, fmt.Errorf("apply customer attributes: %w", err)
	}

	if billing := payload.Map("billing_address"); billing != nil {
		address := buildAddress(billing, customer, scope)
		book.push(address, domain.AddressRoleBilling)
	}

	if shipping := payload.Map("shipping_address"); shipping != nil {
		address := buildAddress(shipping, customer, scope)
		book.push(address, domain.AddressRoleShipping)
	}

	customer.Addresses = book.unique()

	saved, err := p.customers.Save(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("save customer %s: %w", customer.Email, err)
	}

	return saved, nil
}

// breakName splits a single full-name string: first token is the first
// name, last token the last name, interior tokens the middle name.
func breakName(name string) (first, middle, last string) {
	tokens := strings.Fields(name)

	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	default:
		return tokens[0], strings.Join(tokens[1:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}
