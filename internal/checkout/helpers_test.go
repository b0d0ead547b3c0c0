package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adityapratama/shopeasy-backend/internal/cart"
	"github.com/adityapratama/shopeasy-backend/internal/catalog"
	"github.com/adityapratama/shopeasy-backend/internal/orders"
	"github.com/adityapratama/shopeasy-backend/internal/users"
	"github.com/adityapratama/shopeasy-backend/pkg/config"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:checkout_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = gdb.AutoMigrate(
		&models.User{}, &models.Store{}, &models.Category{},
		&models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func newTestService(t *testing.T, gdb *gorm.DB, pricing config.CheckoutConfig) Service {
	t.Helper()

	svc, err := NewService(Deps{
		Carts:    cart.NewRepository(gdb),
		Products: catalog.NewProductRepository(gdb),
		Orders:   orders.NewRepository(gdb),
		Users:    users.NewRepository(gdb),
		DB:       gdb,
		Pricing:  pricing,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func defaultPricing() config.CheckoutConfig {
	return config.CheckoutConfig{ShippingFeeCents: 1000, TaxRate: 0.08}
}

func seedUser(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		Name:         "Test Buyer",
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, gdb *gorm.DB, name string, priceCents int64, stock int) *models.Product {
	t.Helper()

	owner := seedUser(t, gdb)
	store := &models.Store{OwnerID: owner.ID, Name: "Seed Store"}
	if err := gdb.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	product := &models.Product{
		StoreID:    store.ID,
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		Active:     true,
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func putInCart(t *testing.T, gdb *gorm.DB, userID, productID uuid.UUID, quantity int) {
	t.Helper()
	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := gdb.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}

func testAddress() types.Address {
	return types.Address{
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func reloadProduct(t *testing.T, gdb *gorm.DB, id uuid.UUID) *models.Product {
	t.Helper()
	var product models.Product
	if err := gdb.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return &product
}

func cartCount(t *testing.T, gdb *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	if err := gdb.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	return count
}

func orderCount(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := gdb.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return count
}

var testCtx = context.Background()
