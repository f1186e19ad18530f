package importer

import (
	"strings"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
)

// addressBook tracks which address fills each role while one order is
// processed. A role push is last-write-wins, and one instance may hold
// both roles.
type addressBook struct {
	roles  map[domain.AddressRole]*domain.Address
	listed []*domain.Address
}

func newAddressBook() *addressBook {
	return &addressBook{roles: make(map[domain.AddressRole]*domain.Address)}
}

func (b *addressBook) push(address *domain.Address, role domain.AddressRole) {
	b.roles[role] = address

	for _, known := range b.listed {
		if known == address {
			return
		}
	}
	b.listed = append(b.listed, address)
}

// billing returns the billing address, falling back to the shipping one
// when billing was never filled. shipping mirrors it.
func (b *addressBook) billing() *domain.Address {
	if address := b.roles[domain.AddressRoleBilling]; address != nil {
		return address
	}
	return b.roles[domain.AddressRoleShipping]
}

func (b *addressBook) shipping() *domain.Address {
	if address := b.roles[domain.AddressRoleShipping]; address != nil {
		return address
	}
	return b.roles[domain.AddressRoleBilling]
}

// unique returns the distinct address instances in push order. An address
// holding both roles appears once.
func (b *addressBook) unique() []*domain.Address {
	return b.listed
}

// buildAddress normalizes one marketplace address. Street packing is
// store-configuration driven, the country falls back to the store default,
// and the recipient name comes from the owning customer: marketplace
// addresses carry no name of their own.
func buildAddress(data domain.Payload, customer *domain.Customer, scope config.StoreScope) *domain.Address {
	country := data.String("country")
	if country == "" {
		country = scope.DefaultCountry
	}

	return &domain.Address{
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Street: packStreetLines(
			data.String("street"),
			data.String("number"),
			data.String("neighborhood"),
			data.String("complement"),
			scope.StreetLines,
		),
		City:      data.String("city"),
		Region:    data.String("region"),
		Postcode:  data.String("postcode"),
		CountryID: country,
		Phone:     data.String("phone"),
	}
}

// packStreetLines packs street, number, neighborhood and complement into
// exactly lineCount lines (1-4). Fields before the last configured line map
// one to one; everything from the last line onward is merged into it.
// Absent fields leave their line empty.
func packStreetLines(street, number, neighborhood, complement string, lineCount int) []string {
	fields := []string{street, number, neighborhood, complement}

	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > len(fields) {
		lineCount = len(fields)
	}

	lines := make([]string, lineCount)
	copy(lines, fields[:lineCount-1])

	var overflow []string
	for _, field := range fields[lineCount-1:] {
		if field != "" {
			overflow = append(overflow, field)
		}
	}
	lines[lineCount-1] = strings.Join(overflow, ", ")

	return lines
}
