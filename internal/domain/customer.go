package domain

type Gender int

const (
	GenderUnset  Gender = 0
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

// AddressRole classifies how an address is used on an order. A single
// address instance may hold both roles.
type AddressRole string

const (
	AddressRoleBilling  AddressRole = "billing"
	AddressRoleShipping AddressRole = "shipping"
)

type Address struct {
	ID        string   `json:"id,omitempty"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Street    []string `json:"street"`
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Postcode  string   `json:"postcode"`
	CountryID string   `json:"country_id"`
	Phone     string   `json:"phone,omitempty"`
}

// Customer is the local customer identity, unique per email within a
// website scope.
type Customer struct {
	ID                string     `json:"id"`
	WebsiteID         int64      `json:"website_id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	MiddleName        string     `json:"middle_name,omitempty"`
	LastName          string     `json:"last_name"`
	DateOfBirth       string     `json:"date_of_birth,omitempty"`
	Gender            Gender     `json:"gender"`
	Phone             string     `json:"phone,omitempty"`
	TaxvatID          string     `json:"taxvat_id,omitempty"`
	DefaultBillingID  string     `json:"default_billing_id,omitempty"`
	DefaultShippingID string     `json:"default_shipping_id,omitempty"`
	Addresses         []*Address `json:"addresses"`
}
