package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

func TestListProductsNewestPaginatesByCursor(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProductAt(t, gdb, store.ID, productSpec{
			name:       "Product",
			priceCents: 100,
			stock:      1,
			active:     true,
			createdAt:  base.Add(time.Duration(i) * time.Hour),
		})
	}

	ctx := context.Background()
	first, err := svc.ListProducts(ctx, ListParams{Sort: enums.ProductSortNewest, Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Products) != 2 || !first.HasMore || first.NextCursor == "" {
		t.Fatalf("unexpected first page: %d products, hasMore=%v", len(first.Products), first.HasMore)
	}

	second, err := svc.ListProducts(ctx, ListParams{Sort: enums.ProductSortNewest, Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Products) != 2 || !second.HasMore {
		t.Fatalf("unexpected second page: %d products, hasMore=%v", len(second.Products), second.HasMore)
	}

	seen := map[string]bool{}
	for _, p := range append(first.Products, second.Products...) {
		if seen[p.ID.String()] {
			t.Fatalf("product %s appeared on two pages", p.ID)
		}
		seen[p.ID.String()] = true
	}

	third, err := svc.ListProducts(ctx, ListParams{Sort: enums.ProductSortNewest, Limit: 2, Cursor: second.NextCursor})
	if err != nil {
		t.Fatalf("third page: %v", err)
	}
	if len(third.Products) != 1 || third.HasMore {
		t.Fatalf("unexpected last page: %d products, hasMore=%v", len(third.Products), third.HasMore)
	}
}

func TestListProductsSortsByPrice(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	for _, price := range []int64{300, 100, 200} {
		seedProductAt(t, gdb, store.ID, productSpec{name: "P", priceCents: price, stock: 1, active: true})
	}

	result, err := svc.ListProducts(context.Background(), ListParams{Sort: enums.ProductSortPriceAsc, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(result.Products))
	}
	for i := 1; i < len(result.Products); i++ {
		if result.Products[i-1].PriceCents > result.Products[i].PriceCents {
			t.Fatalf("products out of price order at %d", i)
		}
	}
}

func TestListProductsFiltersBySearchAndPrice(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	seedProductAt(t, gdb, store.ID, productSpec{name: "Blue Widget", priceCents: 500, stock: 1, active: true})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Red Widget", priceCents: 2500, stock: 1, active: true})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Gadget", priceCents: 700, stock: 1, active: true})

	maxPrice := int64(1000)
	result, err := svc.ListProducts(context.Background(), ListParams{
		Search:        "Widget",
		MaxPriceCents: &maxPrice,
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Products) != 1 || result.Products[0].Name != "Blue Widget" {
		t.Fatalf("unexpected result: %+v", result.Products)
	}
}

func TestListProductsSearchIgnoresCase(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	seedProductAt(t, gdb, store.ID, productSpec{name: "Blue Widget", priceCents: 500, stock: 1, active: true})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Gadget", priceCents: 700, stock: 1, active: true})

	for _, term := range []string{"WIDGET", "widget", "wIdGeT"} {
		result, err := svc.ListProducts(context.Background(), ListParams{Search: term, Limit: 10})
		if err != nil {
			t.Fatalf("list %q: %v", term, err)
		}
		if len(result.Products) != 1 || result.Products[0].Name != "Blue Widget" {
			t.Fatalf("search %q should match Blue Widget, got %+v", term, result.Products)
		}
	}
}

func TestListProductsByCategorySlug(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)
	category := seedCategory(t, gdb, "Toys", "toys")

	seedProductAt(t, gdb, store.ID, productSpec{name: "Toy Car", priceCents: 500, stock: 1, active: true, categoryID: &category.ID})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Hammer", priceCents: 700, stock: 1, active: true})

	result, err := svc.ListProducts(context.Background(), ListParams{CategorySlug: "toys", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Products) != 1 || result.Products[0].Name != "Toy Car" {
		t.Fatalf("unexpected result: %+v", result.Products)
	}

	_, err = svc.ListProducts(context.Background(), ListParams{CategorySlug: "nope", Limit: 10})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("unknown slug should be not found, got %v", err)
	}
}

func TestGetProductHidesInactive(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	product := seedProductAt(t, gdb, store.ID, productSpec{name: "P", priceCents: 100, stock: 1, active: false})

	_, err := svc.GetProduct(context.Background(), product.ID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("inactive product should be not found, got %v", err)
	}
}

func TestFeaturedProducts(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)

	seedProductAt(t, gdb, store.ID, productSpec{name: "Plain", priceCents: 100, stock: 1, active: true})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Star", priceCents: 100, stock: 1, active: true, featured: true})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Hidden Star", priceCents: 100, stock: 1, active: false, featured: true})

	featured, err := svc.FeaturedProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 1 || featured[0].Name != "Star" {
		t.Fatalf("unexpected featured set: %+v", featured)
	}
}

func TestRelatedProductsShareCategory(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)
	category := seedCategory(t, gdb, "Toys", "toys")

	subject := seedProductAt(t, gdb, store.ID, productSpec{name: "Toy Car", priceCents: 100, stock: 1, active: true, categoryID: &category.ID})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Toy Train", priceCents: 100, stock: 1, active: true, categoryID: &category.ID})
	seedProductAt(t, gdb, store.ID, productSpec{name: "Hammer", priceCents: 100, stock: 1, active: true})

	related, err := svc.RelatedProducts(context.Background(), subject.ID, 0)
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(related) != 1 || related[0].Name != "Toy Train" {
		t.Fatalf("unexpected related set: %+v", related)
	}
}

func TestCreateCategoryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)

	ctx := context.Background()
	category, err := svc.CreateCategory(ctx, "Home & Garden")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.Slug != "home-garden" {
		t.Fatalf("unexpected slug %s", category.Slug)
	}

	_, err = svc.CreateCategory(ctx, "Home & Garden")
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("duplicate category should conflict, got %v", err)
	}
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	_, store := seedSeller(t, gdb)
	category := seedCategory(t, gdb, "Toys", "toys")
	seedProductAt(t, gdb, store.ID, productSpec{name: "Toy", priceCents: 100, stock: 1, active: true, categoryID: &category.ID})

	err := svc.DeleteCategory(context.Background(), category.ID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("category with products should refuse deletion, got %v", err)
	}
}

func TestProductOwnershipGating(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)

	owner, store := seedSeller(t, gdb)
	other, _ := seedSeller(t, gdb)
	product := seedProductAt(t, gdb, store.ID, productSpec{name: "P", priceCents: 100, stock: 1, active: true})

	ctx := context.Background()
	input := ProductInput{Name: "P2", PriceCents: 200, Stock: 3}

	_, err := svc.UpdateProduct(ctx, auth.Actor{UserID: other.ID, Role: enums.RoleSeller}, product.ID, input)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeForbidden {
		t.Fatalf("foreign seller should be forbidden, got %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, auth.Actor{UserID: owner.ID, Role: enums.RoleSeller}, product.ID, input)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "P2" || updated.PriceCents != 200 || updated.Stock != 3 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.UpdateProduct(ctx, auth.Actor{UserID: other.ID, Role: enums.RoleAdmin}, product.ID, input); err != nil {
		t.Fatalf("admin should manage any product: %v", err)
	}
}

func TestCreateAndDeactivateProduct(t *testing.T) {
	t.Parallel()

	gdb := openTestDB(t)
	svc := newTestService(t, gdb)
	seller, _ := seedSeller(t, gdb)
	actor := auth.Actor{UserID: seller.ID, Role: enums.RoleSeller}

	ctx := context.Background()
	product, err := svc.CreateProduct(ctx, actor, ProductInput{Name: "New Thing", PriceCents: 999, Stock: 4})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := svc.GetProduct(ctx, product.ID); err != nil {
		t.Fatalf("new product should be visible: %v", err)
	}

	if err := svc.DeactivateProduct(ctx, actor, product.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = svc.GetProduct(ctx, product.ID)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("deactivated product should be hidden, got %v", err)
	}
}
