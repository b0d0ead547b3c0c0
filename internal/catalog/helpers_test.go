package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adityapratama/shopeasy-backend/internal/stores"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
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

func newTestService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	storeSvc, err := stores.NewService(stores.NewRepository(gdb))
	if err != nil {
		t.Fatalf("new store service: %v", err)
	}
	svc, err := NewService(NewProductRepository(gdb), NewCategoryRepository(gdb), storeSvc)
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	return svc
}

func seedSeller(t *testing.T, gdb *gorm.DB) (*models.User, *models.Store) {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		Name:         "Test Seller",
		Role:         enums.RoleSeller,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("seed seller: %v", err)
	}

	store := &models.Store{OwnerID: user.ID, Name: "Test Store"}
	if err := gdb.Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return user, store
}

func seedCategory(t *testing.T, gdb *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug}
	if err := gdb.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

type productSpec struct {
	name       string
	priceCents int64
	stock      int
	categoryID *uuid.UUID
	featured   bool
	active     bool
	createdAt  time.Time
}

func seedProductAt(t *testing.T, gdb *gorm.DB, storeID uuid.UUID, spec productSpec) *models.Product {
	t.Helper()

	product := &models.Product{
		StoreID:    storeID,
		CategoryID: spec.categoryID,
		Name:       spec.name,
		PriceCents: spec.priceCents,
		Stock:      spec.stock,
		Featured:   spec.featured,
		Active:     spec.active,
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if !spec.active {
		// GORM omits zero-value fields on create, so the column default
		// (active=true) would otherwise win.
		if err := gdb.Model(product).Update("active", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
	}
	if !spec.createdAt.IsZero() {
		if err := gdb.Model(product).Update("created_at", spec.createdAt).Error; err != nil {
			t.Fatalf("backdate product: %v", err)
		}
		product.CreatedAt = spec.createdAt
	}
	return product
}
