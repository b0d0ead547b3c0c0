package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/api/validators"
	cartsvc "github.com/adityapratama/shopeasy-backend/internal/cart"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

type Controller struct {
	svc  cartsvc.Service
	logg *logger.Logger
}

func NewController(svc cartsvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	snap, err := c.svc.Get(r.Context(), actor.UserID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, snap)
}

func (c *Controller) AddItem(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	var req addItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	snap, err := c.svc.Add(r.Context(), actor.UserID, productID, req.Quantity)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, snap)
}

func (c *Controller) UpdateItem(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	var req updateItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	snap, err := c.svc.UpdateQuantity(r.Context(), actor.UserID, productID, req.Quantity)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, snap)
}

func (c *Controller) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	snap, err := c.svc.Remove(r.Context(), actor.UserID, productID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, snap)
}

func (c *Controller) Clear(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	if err := c.svc.Clear(r.Context(), actor.UserID); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.NoContent(w)
}
