package importer

import (
	"context"
	"testing"

	"github.com/bittools/skyhub-importer/internal/domain"
)

func TestSynchronizer_ProcessOrderStatus(t *testing.T) {
	newOrder := func(store *fakeOrderStore, status domain.OrderStatus) *domain.Order {
		order := &domain.Order{ID: "order-1", Status: status}
		store.byID[order.ID] = order
		return order
	}

	t.Run("maps marketplace types onto local statuses", func(t *testing.T) {
		cases := []struct {
			statusType string
			want       domain.OrderStatus
		}{
			{StatusTypeNew, domain.OrderStatusPending},
			{StatusTypeApproved, domain.OrderStatusProcessing},
			{StatusTypeShipped, domain.OrderStatusShipped},
			{StatusTypeDelivered, domain.OrderStatusComplete},
			{StatusTypeCancelled, domain.OrderStatusCancelled},
			{StatusTypePaymentOverdue, domain.OrderStatusCancelled},
		}

		for _, tc := range cases {
			store := newFakeOrderStore()
			order := newOrder(store, "seeded")
			syncer := NewSynchronizer(store, testLogger())

			if err := syncer.ProcessOrderStatus(context.Background(), "CODE", tc.statusType, order); err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.statusType, err)
			}
			if order.Status != tc.want {
				t.Errorf("%s: expected %s, got %s", tc.statusType, tc.want, order.Status)
			}
		}
	})

	t.Run("unknown type is ignored", func(t *testing.T) {
		store := newFakeOrderStore()
		order := newOrder(store, domain.OrderStatusPending)
		syncer := NewSynchronizer(store, testLogger())

		if err := syncer.ProcessOrderStatus(context.Background(), "CODE", "SOMETHING_ELSE", order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status untouched, got %s", order.Status)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		store := newFakeOrderStore()
		order := newOrder(store, domain.OrderStatusProcessing)
		store.updateErr = context.DeadlineExceeded // would surface if UpdateStatus ran

		syncer := NewSynchronizer(store, testLogger())
		if err := syncer.ProcessOrderStatus(context.Background(), "CODE", StatusTypeApproved, order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("vanished order is an error", func(t *testing.T) {
		store := newFakeOrderStore()
		order := &domain.Order{ID: "ghost", Status: domain.OrderStatusPending}

		syncer := NewSynchronizer(store, testLogger())
		if err := syncer.ProcessOrderStatus(context.Background(), "CODE", StatusTypeApproved, order); err == nil {
			t.Fatal("expected an error")
		}
	})
}
