package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	"github.com/adityapratama/shopeasy-backend/pkg/pagination"
)

// ListFilter narrows and orders a product listing.
type ListFilter struct {
	CategoryID      *uuid.UUID
	StoreID         *uuid.UUID
	Search          string
	MinPriceCents   *int64
	MaxPriceCents   *int64
	Sort            enums.ProductSort
	Cursor          *pagination.Cursor
	Offset          int
	Limit           int
	IncludeInactive bool
}

// ProductRepository persists catalog listings.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	Related(ctx context.Context, productID, categoryID uuid.UUID, limit int) ([]models.Product, error)
	// DecrementStock atomically takes quantity units if enough remain.
	// It reports whether the decrement happened.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
	CountActive(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(gdb *gorm.DB) ProductRepository {
	return &productRepository{db: gdb}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Store").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Search != "" {
		// LIKE is case-sensitive on postgres, so match on lowered columns.
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.MinPriceCents != nil {
		query = query.Where("price_cents >= ?", *filter.MinPriceCents)
	}
	if filter.MaxPriceCents != nil {
		query = query.Where("price_cents <= ?", *filter.MaxPriceCents)
	}

	switch filter.Sort {
	case enums.ProductSortPriceAsc:
		query = query.Order("price_cents ASC, id ASC").Offset(filter.Offset)
	case enums.ProductSortPriceDesc:
		query = query.Order("price_cents DESC, id DESC").Offset(filter.Offset)
	case enums.ProductSortName:
		query = query.Order("name ASC, id ASC").Offset(filter.Offset)
	default:
		query = query.Order("created_at DESC, id DESC")
		if filter.Cursor != nil {
			query = query.Where(
				"(created_at, id) < (?, ?)",
				filter.Cursor.CreatedAt, filter.Cursor.ID,
			)
		} else {
			query = query.Offset(filter.Offset)
		}
	}

	var products []models.Product
	if err := query.Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("featured = ? AND active = ?", true, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Related(ctx context.Context, productID, categoryID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND active = ?", categoryID, productID, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ?", true).
		Count(&total).Error
	return total, err
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
