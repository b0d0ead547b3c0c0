package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/metrics"
)

// Line is one cart row joined with its product, priced at current catalog
// prices. Unavailable lines are kept visible but excluded from the subtotal.
type Line struct {
	Item        models.CartItem `json:"item"`
	LineCents   int64           `json:"line_cents"`
	Unavailable bool            `json:"unavailable"`
}

// Snapshot is the cart as the buyer sees it before checkout.
type Snapshot struct {
	Lines         []Line `json:"lines"`
	SubtotalCents int64  `json:"subtotal_cents"`
	ItemCount     int    `json:"item_count"`
}

// productLoader is the slice of the catalog the cart needs.
type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service owns cart reads and writes for signed-in buyers.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	// Add puts quantity units in the cart, merging with any existing line
	// for the same product.
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error)
	// UpdateQuantity sets the line to quantity. Zero or less removes it.
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error)
	// Remove deletes the line. Removing an absent line is a no-op.
	Remove(ctx context.Context, userID, productID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productLoader
	metrics  *metrics.Registry
}

func NewService(repo Repository, products productLoader, reg *metrics.Registry) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{repo: repo, products: products, metrics: reg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart")
	}
	return buildSnapshot(items), nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity < 1 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.loadSellable(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, productID)
	switch {
	case err == nil:
		merged := existing.Quantity + quantity
		if !product.InStock(merged) {
			return nil, insufficientStock(product.Stock)
		}
		existing.Quantity = merged
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating cart line")
		}
	case db.IsNotFound(err):
		if !product.InStock(quantity) {
			return nil, insufficientStock(product.Stock)
		}
		item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.repo.Create(ctx, item); err != nil {
			// Concurrent add for the same product: retry as a merge.
			if db.IsUniqueViolation(err) {
				return s.Add(ctx, userID, productID, quantity)
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "adding cart line")
		}
	default:
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart line")
	}

	s.count("add")
	return s.Get(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	product, err := s.loadSellable(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(quantity) {
		return nil, insufficientStock(product.Stock)
	}

	existing, err := s.repo.Get(ctx, userID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart line not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading cart line")
	}

	existing.Quantity = quantity
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating cart line")
	}

	s.count("update")
	return s.Get(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*Snapshot, error) {
	if _, err := s.repo.Delete(ctx, userID, productID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "removing cart line")
	}
	s.count("remove")
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clearing cart")
	}
	s.count("clear")
	return nil
}

func (s *service) loadSellable(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
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

func (s *service) count(operation string) {
	if s.metrics != nil {
		s.metrics.CartMutations.WithLabelValues(operation).Inc()
	}
}

func insufficientStock(available int) error {
	return apperrors.New(apperrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]int{"available": available})
}

func buildSnapshot(items []models.CartItem) *Snapshot {
	snap := &Snapshot{Lines: make([]Line, 0, len(items))}
	for _, item := range items {
		line := Line{Item: item}
		if item.Product == nil || !item.Product.Active {
			line.Unavailable = true
		} else {
			line.LineCents = item.Product.PriceCents * int64(item.Quantity)
			if !item.Product.InStock(item.Quantity) {
				line.Unavailable = true
			}
		}
		if !line.Unavailable {
			snap.SubtotalCents += line.LineCents
			snap.ItemCount += item.Quantity
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap
}
