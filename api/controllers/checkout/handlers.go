package checkout

import (
	"net/http"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/api/validators"
	checkoutsvc "github.com/adityapratama/shopeasy-backend/internal/checkout"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

type Controller struct {
	svc  checkoutsvc.Service
	logg *logger.Logger
}

func NewController(svc checkoutsvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

type placeOrderRequest struct {
	PaymentMethod     string         `json:"payment_method" validate:"required"`
	UseProfileAddress bool           `json:"use_profile_address"`
	ShippingAddress   *types.Address `json:"shipping_address"`
}

func (c *Controller) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	var req placeOrderRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	input := checkoutsvc.PlaceOrderInput{
		PaymentMethod:     enums.PaymentMethod(req.PaymentMethod),
		UseProfileAddress: req.UseProfileAddress,
	}
	if req.ShippingAddress != nil {
		input.ShippingAddress = *req.ShippingAddress
	}

	order, err := c.svc.PlaceOrder(r.Context(), actor.UserID, input)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	c.logg.Info(c.logg.WithField(r.Context(), "order_number", order.OrderNumber), "order placed")
	responses.JSON(w, http.StatusCreated, order)
}
