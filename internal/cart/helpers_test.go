package cart

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_%s?mode=memory&cache=shared", uuid.NewString())
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

func seedProduct(t *testing.T, gdb *gorm.DB, priceCents int64, stock int) *models.Product {
	t.Helper()

	owner := seedUser(t, gdb)
	store := &models.Store{OwnerID: owner.ID, Name: "Seed Store"}
	if err := gdb.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	product := &models.Product{
		StoreID:    store.ID,
		Name:       fmt.Sprintf("Product %s", uuid.NewString()[:8]),
		PriceCents: priceCents,
		Stock:      stock,
		Active:     true,
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
