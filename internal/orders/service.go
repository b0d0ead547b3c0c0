package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

// validTransitions is the order lifecycle. Terminal states have no exits.
var validTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:    {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped: {enums.OrderStatusDelivered},
}

// Service reads orders back to buyers and lets admins run fulfilment.
type Service interface {
	// Get returns the order if the actor owns it or is an admin.
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, perPage int) ([]models.Order, int64, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, page, perPage int) ([]models.Order, int64, error)
	// UpdateStatus moves an order along the lifecycle. Invalid jumps and
	// moves out of terminal states are rejected.
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Stats is the fulfilment summary shown on the admin dashboard. Cancelled
// orders are excluded.
type Stats struct {
	Orders       int64 `json:"orders"`
	RevenueCents int64 `json:"revenue_cents"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		// Hide the order's existence from non-owners.
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, page, perPage int) ([]models.Order, int64, error) {
	offset, limit := pageBounds(page, perPage)
	orders, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return orders, total, nil
}

func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, page, perPage int) ([]models.Order, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, apperrors.New(apperrors.CodeValidation, "unknown order status")
	}

	offset, limit := pageBounds(page, perPage)
	orders, total, err := s.repo.ListAll(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return orders, total, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown order status")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		return nil, apperrors.New(apperrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating order status")
	}

	order.Status = status
	return order, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	count, revenue, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "summarising orders")
	}
	return &Stats{Orders: count, RevenueCents: revenue}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func pageBounds(page, perPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return (page - 1) * perPage, perPage
}
