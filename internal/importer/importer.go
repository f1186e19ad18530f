package importer

import (
	"context"
	"errors"

	"github.com/bittools/skyhub-importer/internal/domain"
)

// ErrEmptyProductSet is returned when no marketplace line item could be
// matched with the local catalog; an order is never created without items.
var ErrEmptyProductSet = errors.New("no marketplace item matched the local catalog")

// Gateway fetches order documents from the marketplace. A reference the
// marketplace does not know returns (nil, nil).
type Gateway interface {
	FetchOrder(ctx context.Context, referenceCode string) (domain.Payload, error)
}

// OrderStore persists local orders. Lookups return (nil, nil) on a miss.
type OrderStore interface {
	FindByMarketplaceCode(ctx context.Context, code string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// CustomerStore persists local customers together with their addresses.
// GetByEmail returns (nil, nil) when no customer owns the email within the
// website scope.
type CustomerStore interface {
	GetByEmail(ctx context.Context, email string, websiteID int64) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// CatalogStore resolves SKUs to local product ids. An unknown SKU returns
// ("", nil).
type CatalogStore interface {
	IDBySKU(ctx context.Context, sku string) (string, error)
}

// StatusSyncer maps a marketplace status onto the local order state.
type StatusSyncer interface {
	ProcessOrderStatus(ctx context.Context, code, statusType string, order *domain.Order) error
}

// EventPublisher emits integration events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// AttributeMapper is the extension point for store-specific customer
// attribute mapping (person type, state registration and the like). The
// default implementation does nothing; the capability is intentionally
// inert until a store maps its attributes.
type AttributeMapper interface {
	ApplyCustomerAttributes(ctx context.Context, data domain.Payload, customer *domain.Customer) error
}

// NoopAttributeMapper is the disabled default AttributeMapper.
type NoopAttributeMapper struct{}

func (NoopAttributeMapper) ApplyCustomerAttributes(context.Context, domain.Payload, *domain.Customer) error {
	return nil
}
