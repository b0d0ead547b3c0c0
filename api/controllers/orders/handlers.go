package orders

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	ordersvc "github.com/adityapratama/shopeasy-backend/internal/orders"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

type Controller struct {
	svc  ordersvc.Service
	logg *logger.Logger
}

func NewController(svc ordersvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

func (c *Controller) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	page, perPage := pageParams(r)

	orders, total, err := c.svc.ListMine(r.Context(), actor.UserID, page, perPage)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.List(w, http.StatusOK, orders, &types.Meta{Total: total})
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid order id"))
		return
	}

	order, err := c.svc.Get(r.Context(), actor, id)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, order)
}

func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}
