package orders

import (
	"context"
	"testing"

	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

func TestGetHidesOtherUsersOrders(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	owner := seedUser(t, gdb)
	stranger := seedUser(t, gdb)
	order := seedOrder(t, gdb, owner.ID, enums.OrderStatusPaid)

	got, err := svc.Get(ctx, auth.Actor{UserID: owner.ID, Role: enums.RoleBuyer}, order.ID)
	if err != nil {
		t.Fatalf("owner should read own order: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("unexpected order %s", got.ID)
	}

	_, err = svc.Get(ctx, auth.Actor{UserID: stranger.ID, Role: enums.RoleBuyer}, order.ID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("stranger should see not found, got %v", err)
	}

	if _, err := svc.Get(ctx, auth.Actor{UserID: stranger.ID, Role: enums.RoleAdmin}, order.ID); err != nil {
		t.Fatalf("admin should read any order: %v", err)
	}
}

func TestListMineOnlyReturnsOwnOrders(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	alice := seedUser(t, gdb)
	bob := seedUser(t, gdb)
	seedOrder(t, gdb, alice.ID, enums.OrderStatusPaid)
	seedOrder(t, gdb, alice.ID, enums.OrderStatusPending)
	seedOrder(t, gdb, bob.ID, enums.OrderStatusPaid)

	mine, total, err := svc.ListMine(ctx, alice.ID, 1, 20)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if total != 2 || len(mine) != 2 {
		t.Fatalf("expected 2 orders for alice, got %d (total %d)", len(mine), total)
	}
	for _, order := range mine {
		if order.UserID != alice.ID {
			t.Fatalf("foreign order leaked: %s", order.ID)
		}
	}
}

func TestListAllFiltersByStatus(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusPaid)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusPending)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusPending)

	pending := enums.OrderStatusPending
	orders, total, err := svc.ListAll(ctx, &pending, 1, 20)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 pending orders, got %d (total %d)", len(orders), total)
	}
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	order := seedOrder(t, gdb, buyer.ID, enums.OrderStatusPending)

	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid)
	if err != nil {
		t.Fatalf("pending to paid: %v", err)
	}
	if updated.Status != enums.OrderStatusPaid {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped); err != nil {
		t.Fatalf("paid to shipped: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered); err != nil {
		t.Fatalf("shipped to delivered: %v", err)
	}
}

func TestUpdateStatusRejectsInvalidJumps(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)

	pending := seedOrder(t, gdb, buyer.ID, enums.OrderStatusPending)
	_, err = svc.UpdateStatus(ctx, pending.ID, enums.OrderStatusDelivered)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("pending to delivered should conflict, got %v", err)
	}

	delivered := seedOrder(t, gdb, buyer.ID, enums.OrderStatusDelivered)
	_, err = svc.UpdateStatus(ctx, delivered.ID, enums.OrderStatusPending)
	typed = apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("leaving a terminal state should conflict, got %v", err)
	}

	_, err = svc.UpdateStatus(ctx, pending.ID, enums.OrderStatus("weird"))
	typed = apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("unknown status should be a validation error, got %v", err)
	}
}

func TestStatsExcludeCancelledOrders(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	buyer := seedUser(t, gdb)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusPaid)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusPending)
	seedOrder(t, gdb, buyer.ID, enums.OrderStatusCancelled)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Orders != 2 {
		t.Fatalf("expected 2 counted orders, got %d", stats.Orders)
	}
	if stats.RevenueCents != 4160 {
		t.Fatalf("expected revenue 4160, got %d", stats.RevenueCents)
	}
}
