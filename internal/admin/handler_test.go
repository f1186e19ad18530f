package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
	"github.com/bittools/skyhub-importer/internal/importer"
)

type stubGateway struct {
	orders map[string]domain.Payload
}

func (g *stubGateway) FetchOrder(_ context.Context, ref string) (domain.Payload, error) {
	return g.orders[ref], nil
}

type stubOrderStore struct {
	saved int
}

func (s *stubOrderStore) FindByMarketplaceCode(context.Context, string) (*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderStore) GetByID(context.Context, string) (*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderStore) Save(_ context.Context, order *domain.Order) error {
	s.saved++
	order.ID = "order-1"
	return nil
}

func (s *stubOrderStore) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	return &domain.Order{ID: "order-1", Status: status}, nil
}

type stubCustomerStore struct{}

func (stubCustomerStore) GetByEmail(context.Context, string, int64) (*domain.Customer, error) {
	return nil, nil
}

func (stubCustomerStore) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return customer, nil
}

type stubCatalog struct{}

func (stubCatalog) IDBySKU(_ context.Context, sku string) (string, error) {
	return "prod-" + sku, nil
}

type stubSyncer struct{}

func (stubSyncer) ProcessOrderStatus(context.Context, string, string, *domain.Order) error {
	return nil
}

func newTestHandler(gateway importer.Gateway) (*Handler, *stubOrderStore) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orders := &stubOrderStore{}
	processor := importer.NewProcessor(orders, stubCustomerStore{}, stubCatalog{}, stubSyncer{}, nil, nil, logger)
	cfg := &config.Config{Stores: []config.StoreScope{{
		StoreID:        1,
		WebsiteID:      1,
		StreetLines:    4,
		DefaultCountry: "BR",
		ShippingPolicy: config.ShippingFixedFree,
		PaymentMethod:  "skyhub_standard",
	}}}
	runner := importer.NewRunner(gateway, processor, cfg, logger)
	return NewHandler(runner, logger), orders
}

func orderDocument(code string) domain.Payload {
	return domain.Payload{
		"code":    code,
		"channel": "marketplace-x",
		"status":  map[string]any{"type": "NEW"},
		"customer": map[string]any{
			"name":  "Ana Souza",
			"email": "ana@example.com",
		},
		"items": []any{
			map[string]any{"product_id": "SKU-1", "qty": 1, "original_price": 10.0},
		},
	}
}

func TestHandler_HandleImport(t *testing.T) {
	t.Run("imports each reference on its own line", func(t *testing.T) {
		gateway := &stubGateway{orders: map[string]domain.Payload{
			"ORDER-A": orderDocument("ORDER-A"),
			"ORDER-B": orderDocument("ORDER-B"),
		}}
		handler, orders := newTestHandler(gateway)

		body := `{"store_id": 1, "references": "ORDER-A\nORDER-B\nORDER-MISSING"}`
		req := httptest.NewRequest(http.MethodPost, "/admin/imports", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleImport(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp struct {
			Results []importer.Result `json:"results"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}

		if len(resp.Results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(resp.Results))
		}
		if resp.Results[0].Status != importer.ResultSuccess || resp.Results[1].Status != importer.ResultSuccess {
			t.Errorf("expected successes for the known references: %+v", resp.Results)
		}
		if resp.Results[2].Status != importer.ResultWarning {
			t.Errorf("expected a warning for the missing reference: %+v", resp.Results[2])
		}
		if orders.saved != 2 {
			t.Errorf("expected 2 persisted orders, got %d", orders.saved)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler, _ := newTestHandler(&stubGateway{})

		req := httptest.NewRequest(http.MethodPost, "/admin/imports", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		handler.HandleImport(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
