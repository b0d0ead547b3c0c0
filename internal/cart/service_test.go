package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/internal/catalog"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

func TestAddMergesIntoSingleLine(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	product := seedProduct(t, gdb, 1000, 5)

	if _, err := svc.Add(ctx, buyer.ID, product.ID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	snap, err := svc.Add(ctx, buyer.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(snap.Lines) != 1 {
		t.Fatalf("adds for the same product should merge, got %d lines", len(snap.Lines))
	}
	if snap.Lines[0].Item.Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", snap.Lines[0].Item.Quantity)
	}
	if snap.SubtotalCents != 3000 {
		t.Fatalf("expected subtotal 3000, got %d", snap.SubtotalCents)
	}
}

func TestAddRejectsBeyondStock(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	product := seedProduct(t, gdb, 500, 2)

	if _, err := svc.Add(ctx, buyer.ID, product.ID, 2); err != nil {
		t.Fatalf("add within stock: %v", err)
	}

	_, err = svc.Add(ctx, buyer.ID, product.ID, 1)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected conflict for merged quantity beyond stock, got %v", err)
	}

	snap, err := svc.Get(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Lines[0].Item.Quantity != 2 {
		t.Fatalf("failed add should not change the line, got quantity %d", snap.Lines[0].Item.Quantity)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	buyer := seedUser(t, gdb)
	_, err = svc.Add(context.Background(), buyer.ID, uuid.New(), 1)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	buyer := seedUser(t, gdb)
	product := seedProduct(t, gdb, 100, 10)

	_, err = svc.Add(context.Background(), buyer.ID, product.ID, 0)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	product := seedProduct(t, gdb, 100, 10)

	if _, err := svc.Add(ctx, buyer.ID, product.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, err := svc.UpdateQuantity(ctx, buyer.ID, product.ID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Lines))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	product := seedProduct(t, gdb, 100, 10)

	if _, err := svc.Add(ctx, buyer.ID, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Remove(ctx, buyer.ID, product.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	snap, err := svc.Remove(ctx, buyer.ID, product.ID)
	if err != nil {
		t.Fatalf("second remove should succeed: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Lines))
	}
}

func TestSnapshotFlagsInactiveProduct(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc, err := NewService(NewRepository(gdb), catalog.NewProductRepository(gdb), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	buyer := seedUser(t, gdb)
	keep := seedProduct(t, gdb, 1000, 5)
	gone := seedProduct(t, gdb, 500, 5)

	if _, err := svc.Add(ctx, buyer.ID, keep.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, buyer.ID, gone.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := gdb.Model(gone).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	snap, err := svc.Get(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(snap.Lines) != 2 {
		t.Fatalf("expected both lines visible, got %d", len(snap.Lines))
	}
	if snap.SubtotalCents != 1000 {
		t.Fatalf("inactive line should not count toward subtotal, got %d", snap.SubtotalCents)
	}

	var unavailable int
	for _, line := range snap.Lines {
		if line.Unavailable {
			unavailable++
		}
	}
	if unavailable != 1 {
		t.Fatalf("expected exactly one unavailable line, got %d", unavailable)
	}
}
