package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
)

type fakeOrderStore struct {
	byCode    map[string]*domain.Order
	byID      map[string]*domain.Order
	saved     []*domain.Order
	findErr   error
	saveErr   error
	updateErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		byCode: make(map[string]*domain.Order),
		byID:   make(map[string]*domain.Order),
	}
}

func (s *fakeOrderStore) FindByMarketplaceCode(_ context.Context, code string) (*domain.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byCode[code], nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	return s.byID[id], nil
}

func (s *fakeOrderStore) Save(_ context.Context, order *domain.Order) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	order.ID = "order-" + order.SkyhubCode
	s.saved = append(s.saved, order)
	s.byCode[order.SkyhubCode] = order
	s.byID[order.ID] = order
	return nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	order := s.byID[id]
	if order == nil {
		return nil, nil
	}
	order.Status = status
	return order, nil
}

type fakeCustomerStore struct {
	existing *domain.Customer
	getErr   error
	saveErr  error
	saved    *domain.Customer
}

func (s *fakeCustomerStore) GetByEmail(_ context.Context, email string, websiteID int64) (*domain.Customer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.existing != nil && s.existing.Email == email && s.existing.WebsiteID == websiteID {
		return s.existing, nil
	}
	return nil, nil
}

func (s *fakeCustomerStore) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = customer
	return customer, nil
}

type fakeCatalog struct {
	ids map[string]string
	err error
}

func (c *fakeCatalog) IDBySKU(_ context.Context, sku string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.ids[sku], nil
}

type fakeSyncer struct {
	calls []string
	err   error
}

func (s *fakeSyncer) ProcessOrderStatus(_ context.Context, code, statusType string, _ *domain.Order) error {
	s.calls = append(s.calls, code+"/"+statusType)
	return s.err
}

type fakePublisher struct {
	events []any
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	p.events = append(p.events, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScope() config.StoreScope {
	return config.StoreScope{
		StoreID:        1,
		WebsiteID:      1,
		StreetLines:    2,
		DefaultCountry: "BR",
		ShippingPolicy: config.ShippingFixedFree,
		PaymentMethod:  "skyhub_standard",
	}
}

func samplePayload() domain.Payload {
	return domain.Payload{
		"code":    "ORDER-123",
		"channel": "marketplace-x",
		"status":  map[string]any{"type": "APPROVED"},
		"customer": map[string]any{
			"name":   "Maria da Silva",
			"email":  "maria@example.com",
			"gender": "female",
			"phones": []any{"11999990000", "1133334444"},
		},
		"billing_address": map[string]any{
			"street":       "Rua das Flores",
			"number":       "100",
			"neighborhood": "Centro",
			"city":         "Sao Paulo",
			"region":       "SP",
			"postcode":     "01000-000",
		},
		"shipping_address": map[string]any{
			"street":   "Avenida Paulista",
			"number":   "2000",
			"city":     "Sao Paulo",
			"region":   "SP",
			"postcode": "01310-000",
		},
		"items": []any{
			map[string]any{
				"product_id":     "SKU-PARENT",
				"id":             "SKU-CHILD",
				"qty":            2,
				"original_price": 100.0,
				"special_price":  80.0,
			},
		},
		"shipping_carrier": "transportadora-x",
		"shipping_method":  "expresso",
		"shipping_cost":    15.5,
		"discount":         10.0,
		"interest":         0.0,
	}
}

func newTestProcessor(orders *fakeOrderStore, customers *fakeCustomerStore, catalog *fakeCatalog, syncer *fakeSyncer, publisher *fakePublisher) *Processor {
	return NewProcessor(orders, customers, catalog, syncer, publisher, nil, testLogger())
}

func TestProcessor_ImportOrder(t *testing.T) {
	t.Run("creates order from marketplace payload", func(t *testing.T) {
		orderStore := newFakeOrderStore()
		catalog := &fakeCatalog{ids: map[string]string{"SKU-PARENT": "prod-1", "SKU-CHILD": "prod-2"}}
		syncer := &fakeSyncer{}
		publisher := &fakePublisher{}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, syncer, publisher)

		order, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.SkyhubCode != "ORDER-123" {
			t.Errorf("expected skyhub code ORDER-123, got %s", order.SkyhubCode)
		}
		if order.SkyhubChannel != "marketplace-x" {
			t.Errorf("expected channel marketplace-x, got %s", order.SkyhubChannel)
		}
		if !order.SkyhubImported {
			t.Error("expected order to be tagged as imported")
		}
		if len(order.SkyhubPayload) == 0 {
			t.Error("expected a payload snapshot on the order")
		}
		if order.Number != "ORDER-123" {
			t.Errorf("expected forced number ORDER-123, got %s", order.Number)
		}
		if len(orderStore.saved) != 1 {
			t.Fatalf("expected 1 saved order, got %d", len(orderStore.saved))
		}
		if len(order.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(order.Items))
		}
		if order.Items[0].ChildProductID != "prod-2" {
			t.Errorf("expected child product prod-2, got %s", order.Items[0].ChildProductID)
		}

		// fixed_free policy overrides the marketplace carrier/method
		if order.ShippingCarrier != "freeshipping" || order.ShippingMethod != "freeshipping" {
			t.Errorf("expected freeshipping override, got %s/%s", order.ShippingCarrier, order.ShippingMethod)
		}
		if !order.ShippingCost.Equal(decimalFromString(t, "15.5")) {
			t.Errorf("expected shipping cost 15.5, got %s", order.ShippingCost)
		}

		// 2 * 80 + 15.5 - 10 + 0
		if !order.GrandTotal.Equal(decimalFromString(t, "165.5")) {
			t.Errorf("expected grand total 165.5, got %s", order.GrandTotal)
		}

		if len(syncer.calls) != 1 || syncer.calls[0] != "ORDER-123/APPROVED" {
			t.Errorf("expected status sync for ORDER-123/APPROVED, got %v", syncer.calls)
		}

		if len(publisher.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(publisher.events))
		}
		if _, ok := publisher.events[0].(domain.OrderImportedEvent); !ok {
			t.Errorf("expected OrderImportedEvent, got %T", publisher.events[0])
		}
	})

	t.Run("importing the same code twice returns the first order unchanged", func(t *testing.T) {
		orderStore := newFakeOrderStore()
		catalog := &fakeCatalog{ids: map[string]string{"SKU-PARENT": "prod-1", "SKU-CHILD": "prod-2"}}
		syncer := &fakeSyncer{}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, syncer, &fakePublisher{})

		first, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if err != nil {
			t.Fatalf("unexpected error on first import: %v", err)
		}

		second, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if err != nil {
			t.Fatalf("unexpected error on second import: %v", err)
		}

		if second != first {
			t.Error("expected the second import to return the first order")
		}
		if len(orderStore.saved) != 1 {
			t.Errorf("expected exactly 1 saved order, got %d", len(orderStore.saved))
		}
		if len(syncer.calls) != 1 {
			t.Errorf("expected no second status sync, got %v", syncer.calls)
		}
	})

	t.Run("fails with ErrEmptyProductSet when no item matches", func(t *testing.T) {
		orderStore := newFakeOrderStore()
		catalog := &fakeCatalog{ids: map[string]string{}}
		publisher := &fakePublisher{}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, &fakeSyncer{}, publisher)

		_, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if !errors.Is(err, ErrEmptyProductSet) {
			t.Fatalf("expected ErrEmptyProductSet, got %v", err)
		}

		if len(orderStore.saved) != 0 {
			t.Errorf("expected no saved order, got %d", len(orderStore.saved))
		}

		if len(publisher.events) != 1 {
			t.Fatalf("expected 1 failure event, got %d", len(publisher.events))
		}
		failed, ok := publisher.events[0].(domain.OrderImportFailedEvent)
		if !ok {
			t.Fatalf("expected OrderImportFailedEvent, got %T", publisher.events[0])
		}
		if failed.Code != "ORDER-123" {
			t.Errorf("expected code ORDER-123 on failure event, got %s", failed.Code)
		}
		if len(failed.Payload) == 0 {
			t.Error("expected the failure event to carry the original payload")
		}
	})

	t.Run("repository failure during creation is reported, not saved", func(t *testing.T) {
		orderStore := newFakeOrderStore()
		orderStore.saveErr = errors.New("connection reset")
		catalog := &fakeCatalog{ids: map[string]string{"SKU-PARENT": "prod-1"}}
		publisher := &fakePublisher{}
		syncer := &fakeSyncer{}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, syncer, publisher)

		_, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(syncer.calls) != 0 {
			t.Errorf("expected no status sync after failure, got %v", syncer.calls)
		}
		if len(publisher.events) != 1 {
			t.Fatalf("expected 1 failure event, got %d", len(publisher.events))
		}
	})

	t.Run("status sync failure does not undo the import", func(t *testing.T) {
		orderStore := newFakeOrderStore()
		catalog := &fakeCatalog{ids: map[string]string{"SKU-PARENT": "prod-1"}}
		syncer := &fakeSyncer{err: errors.New("update failed")}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, syncer, &fakePublisher{})

		order, err := processor.ImportOrder(context.Background(), testScope(), samplePayload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order == nil {
			t.Fatal("expected the order despite the sync failure")
		}
	})

	t.Run("passthrough policy keeps marketplace shipping", func(t *testing.T) {
		scope := testScope()
		scope.ShippingPolicy = config.ShippingPassthrough

		orderStore := newFakeOrderStore()
		catalog := &fakeCatalog{ids: map[string]string{"SKU-PARENT": "prod-1"}}
		processor := newTestProcessor(orderStore, &fakeCustomerStore{}, catalog, &fakeSyncer{}, &fakePublisher{})

		order, err := processor.ImportOrder(context.Background(), scope, samplePayload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ShippingCarrier != "transportadora-x" || order.ShippingMethod != "expresso" {
			t.Errorf("expected marketplace shipping kept, got %s/%s", order.ShippingCarrier, order.ShippingMethod)
		}
	})
}
