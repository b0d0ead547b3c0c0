package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/internal/cart"
	"github.com/adityapratama/shopeasy-backend/internal/catalog"
	"github.com/adityapratama/shopeasy-backend/internal/orders"
	"github.com/adityapratama/shopeasy-backend/internal/users"
	"github.com/adityapratama/shopeasy-backend/pkg/config"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/metrics"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

// PlaceOrderInput is everything the buyer submits at checkout. With
// UseProfileAddress set the address saved on the account is used and
// ShippingAddress is ignored.
type PlaceOrderInput struct {
	PaymentMethod     enums.PaymentMethod
	UseProfileAddress bool
	ShippingAddress   types.Address
}

type txRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error

// Service turns a cart into an order.
type Service interface {
	// PlaceOrder converts the user's cart into an order inside one
	// transaction. Either every line is priced and its stock taken, or
	// nothing is written and the cart survives untouched.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	carts    cart.Repository
	products catalog.ProductRepository
	orders   orders.Repository
	users    users.Repository
	runTx    txRunner
	pricing  config.CheckoutConfig
	metrics  *metrics.Registry
}

// Deps wires the checkout service. Every field is required except Metrics.
type Deps struct {
	Carts    cart.Repository
	Products catalog.ProductRepository
	Orders   orders.Repository
	Users    users.Repository
	DB       *gorm.DB
	Pricing  config.CheckoutConfig
	Metrics  *metrics.Registry
}

func NewService(deps Deps) (Service, error) {
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	return &service{
		carts:    deps.Carts,
		products: deps.Products,
		orders:   deps.Orders,
		users:    deps.Users,
		runTx: func(ctx context.Context, fn func(tx *gorm.DB) error) error {
			return db.WithTx(ctx, deps.DB, fn)
		},
		pricing: deps.Pricing,
		metrics: deps.Metrics,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if !input.PaymentMethod.Valid() {
		s.failure("unknown_payment_method")
		return nil, apperrors.New(apperrors.CodeValidation, "unknown payment method")
	}

	destination, err := s.resolveAddress(ctx, userID, input)
	if err != nil {
		s.failure("missing_address")
		return nil, err
	}

	var order *models.Order
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		items, err := carts.ListByUser(ctx, userID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "loading cart")
		}
		if len(items) == 0 {
			return apperrors.New(apperrors.CodeValidation, "cart is empty")
		}

		var subtotal int64
		lines := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := item.Product
			if product == nil || !product.Active {
				return apperrors.New(apperrors.CodeConflict, "product no longer available").
					WithDetails(map[string]string{"product_id": item.ProductID.String()})
			}

			taken, err := products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, err, "reserving stock")
			}
			if !taken {
				return apperrors.New(apperrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{
						"product_id":   item.ProductID.String(),
						"product_name": product.Name,
						"requested":    item.Quantity,
						"available":    product.Stock,
					})
			}

			subtotal += product.PriceCents * int64(item.Quantity)
			lines = append(lines, models.OrderItem{
				ProductID:      item.ProductID,
				ProductName:    product.Name,
				UnitPriceCents: product.PriceCents,
				Quantity:       item.Quantity,
			})
		}

		pricing := price(subtotal, s.pricing)

		order = &models.Order{
			UserID:          userID,
			OrderNumber:     newOrderNumber(),
			Status:          initialStatus(input.PaymentMethod),
			PaymentMethod:   input.PaymentMethod,
			ShippingAddress: destination,
			SubtotalCents:   pricing.SubtotalCents,
			ShippingCents:   pricing.ShippingCents,
			TaxCents:        pricing.TaxCents,
			TotalCents:      pricing.TotalCents,
			Items:           lines,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				order.OrderNumber = newOrderNumber()
				err = orderRepo.Create(ctx, order)
			}
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, err, "creating order")
			}
		}

		if err := carts.Clear(ctx, userID); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "clearing cart")
		}
		return nil
	})
	if err != nil {
		if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeConflict {
			s.failure("out_of_stock")
		} else if typed != nil && typed.Code() == apperrors.CodeValidation {
			s.failure("validation")
		} else {
			s.failure("internal")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlaced.WithLabelValues(input.PaymentMethod.String()).Inc()
	}
	return order, nil
}

func (s *service) resolveAddress(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (types.Address, error) {
	if !input.UseProfileAddress {
		if input.ShippingAddress.Empty() {
			return types.Address{}, apperrors.New(apperrors.CodeValidation, "shipping address is required")
		}
		return input.ShippingAddress, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.Address{}, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	if user.Address.Empty() {
		return types.Address{}, apperrors.New(apperrors.CodeValidation, "no address saved on profile")
	}
	return user.Address, nil
}

func (s *service) failure(reason string) {
	if s.metrics != nil {
		s.metrics.CheckoutFailures.WithLabelValues(reason).Inc()
	}
}

// initialStatus marks card and PayPal orders paid at placement. Cash on
// delivery stays pending until fulfilment.
func initialStatus(method enums.PaymentMethod) enums.OrderStatus {
	if method.SettlesImmediately() {
		return enums.OrderStatusPaid
	}
	return enums.OrderStatusPending
}

func newOrderNumber() string {
	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:8])
}
