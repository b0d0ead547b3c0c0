package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/internal/stores"
	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/pagination"
)

const (
	defaultFeaturedLimit = 8
	defaultRelatedLimit  = 4
)

// ListParams is the public catalog query surface.
type ListParams struct {
	CategorySlug  string
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	Sort          enums.ProductSort
	Cursor        string
	Page          int
	Limit         int
}

// ListResult is one page of products. NextCursor is set only for the
// newest sort, which paginates by cursor instead of page number.
type ListResult struct {
	Products   []models.Product
	NextCursor string
	HasMore    bool
}

// ProductInput is the seller-provided listing payload.
type ProductInput struct {
	Name         string
	Description  string
	PriceCents   int64
	Stock        int
	CategorySlug string
}

// Service is the catalog read and management surface.
type Service interface {
	ListProducts(ctx context.Context, params ListParams) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	RelatedProducts(ctx context.Context, productID uuid.UUID, limit int) ([]models.Product, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, actor auth.Actor, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, actor auth.Actor, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeactivateProduct(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	SetProductImage(ctx context.Context, actor auth.Actor, id uuid.UUID, imagePath string) (*models.Product, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Product, error)
	ListStoreProducts(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type service struct {
	products   ProductRepository
	categories CategoryRepository
	stores     stores.Service
}

func NewService(products ProductRepository, categories CategoryRepository, storeSvc stores.Service) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service is required")
	}
	return &service{products: products, categories: categories, stores: storeSvc}, nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.ClampLimit(params.Limit)

	filter := ListFilter{
		Search:        strings.TrimSpace(params.Search),
		MinPriceCents: params.MinPriceCents,
		MaxPriceCents: params.MaxPriceCents,
		Sort:          params.Sort,
		Limit:         limit + 1,
	}

	if params.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, params.CategorySlug)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
		}
		filter.CategoryID = &category.ID
	}

	if params.Sort == enums.ProductSortNewest || params.Sort == "" {
		if params.Cursor != "" {
			cursor, err := pagination.Decode(params.Cursor)
			if err != nil {
				return nil, apperrors.New(apperrors.CodeValidation, "invalid cursor")
			}
			filter.Cursor = &cursor
		}
	} else {
		page := params.Page
		if page < 1 {
			page = 1
		}
		filter.Offset = (page - 1) * limit
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing products")
	}

	result := &ListResult{Products: products}
	if len(products) > limit {
		result.Products = products[:limit]
		result.HasMore = true
		if filter.Sort == enums.ProductSortNewest || filter.Sort == "" {
			last := result.Products[limit-1]
			result.NextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		}
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if !product.Active {
		return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > pagination.MaxLimit {
		limit = defaultFeaturedLimit
	}
	products, err := s.products.Featured(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing featured products")
	}
	return products, nil
}

func (s *service) RelatedProducts(ctx context.Context, productID uuid.UUID, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > pagination.MaxLimit {
		limit = defaultRelatedLimit
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CategoryID == nil {
		return []models.Product{}, nil
	}

	related, err := s.products.Related(ctx, productID, *product.CategoryID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing related products")
	}
	return related, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	category := &models.Category{Name: name, Slug: slugify(name)}
	if err := s.categories.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "category already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}

	category.Name = name
	category.Slug = slugify(name)
	if err := s.categories.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "category already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.categories.ProductCount(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "counting category products")
	}
	if count > 0 {
		return apperrors.New(apperrors.CodeConflict, "category still has products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, actor auth.Actor, input ProductInput) (*models.Product, error) {
	store, err := s.stores.GetByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{StoreID: store.ID, Active: true}
	if err := s.applyInput(ctx, product, input); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor auth.Actor, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyInput(ctx, product, input); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}
	return product, nil
}

func (s *service) DeactivateProduct(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return err
	}

	product.Active = false
	if err := s.products.Update(ctx, product); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deactivating product")
	}
	return nil
}

func (s *service) SetProductImage(ctx context.Context, actor auth.Actor, id uuid.UUID, imagePath string) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	product.ImagePath = imagePath
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving product image")
	}
	return product, nil
}

func (s *service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	product.Featured = featured
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}
	return product, nil
}

func (s *service) ListStoreProducts(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Product, error) {
	limit = pagination.ClampLimit(limit)
	if page < 1 {
		page = 1
	}

	products, err := s.products.List(ctx, ListFilter{
		StoreID:         &storeID,
		Offset:          (page - 1) * limit,
		Limit:           limit,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing store products")
	}
	return products, nil
}

func (s *service) CountProducts(ctx context.Context) (int64, error) {
	total, err := s.products.CountActive(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "counting products")
	}
	return total, nil
}

// ownedProduct loads a product and checks the actor may manage it. Admins
// may manage any listing.
func (s *service) ownedProduct(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	if actor.IsAdmin() {
		return product, nil
	}

	store, err := s.stores.GetByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != store.ID {
		return nil, apperrors.New(apperrors.CodeForbidden, "product belongs to another store")
	}
	return product, nil
}

func (s *service) applyInput(ctx context.Context, product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.New(apperrors.CodeValidation, "product name is required")
	}
	if input.PriceCents < 0 {
		return apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return apperrors.New(apperrors.CodeValidation, "stock must not be negative")
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.PriceCents = input.PriceCents
	product.Stock = input.Stock

	if input.CategorySlug == "" {
		product.CategoryID = nil
		product.Category = nil
		return nil
	}

	category, err := s.categories.GetBySlug(ctx, input.CategorySlug)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeValidation, "unknown category")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}
	product.CategoryID = &category.ID
	product.Category = category
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
