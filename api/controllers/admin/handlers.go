package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/api/validators"
	catalogsvc "github.com/adityapratama/shopeasy-backend/internal/catalog"
	ordersvc "github.com/adityapratama/shopeasy-backend/internal/orders"
	usersvc "github.com/adityapratama/shopeasy-backend/internal/users"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

type Controller struct {
	users   usersvc.Service
	orders  ordersvc.Service
	catalog catalogsvc.Service
	logg    *logger.Logger
}

func NewController(users usersvc.Service, orders ordersvc.Service, catalog catalogsvc.Service, logg *logger.Logger) *Controller {
	return &Controller{users: users, orders: orders, catalog: catalog, logg: logg}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer seller admin"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type featuredRequest struct {
	Featured bool `json:"featured"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (c *Controller) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCount, err := c.users.Count(ctx)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	productCount, err := c.catalog.CountProducts(ctx)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	stats, err := c.orders.Stats(ctx)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	responses.JSON(w, http.StatusOK, map[string]any{
		"users":         userCount,
		"products":      productCount,
		"orders":        stats.Orders,
		"revenue_cents": stats.RevenueCents,
	})
}

func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	params := usersvc.ListParams{
		Search:  r.URL.Query().Get("q"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role := enums.UserRole(raw)
		params.Role = &role
	}

	users, total, err := c.users.List(r.Context(), params)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.List(w, http.StatusOK, users, &types.Meta{Total: total})
}

func (c *Controller) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid user id"))
		return
	}

	var req resetPasswordRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	if err := c.users.ResetPassword(r.Context(), id, req.Password); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	c.logg.Info(c.logg.WithField(r.Context(), "target_user_id", id.String()), "user password reset")
	responses.NoContent(w)
}

func (c *Controller) SetUserActive(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid user id"))
		return
	}

	var req setActiveRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.users.SetActive(r.Context(), actor.UserID, id, *req.Active)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	c.logg.Info(c.logg.WithField(r.Context(), "target_user_id", id.String()), "user active flag changed")
	responses.JSON(w, http.StatusOK, user)
}

func (c *Controller) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid user id"))
		return
	}

	if err := c.users.Delete(r.Context(), actor.UserID, id); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	c.logg.Info(c.logg.WithField(r.Context(), "target_user_id", id.String()), "user deleted")
	responses.NoContent(w)
}

func (c *Controller) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid user id"))
		return
	}

	var req changeRoleRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.users.ChangeRole(r.Context(), id, enums.UserRole(req.Role))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	c.logg.Info(c.logg.WithField(r.Context(), "target_user_id", id.String()), "user role changed")
	responses.JSON(w, http.StatusOK, user)
}

func (c *Controller) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	var status *enums.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := enums.OrderStatus(raw)
		status = &parsed
	}

	orders, total, err := c.orders.ListAll(r.Context(), status, page, perPage)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.List(w, http.StatusOK, orders, &types.Meta{Total: total})
}

func (c *Controller) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid order id"))
		return
	}

	var req changeStatusRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, enums.OrderStatus(req.Status))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, order)
}

func (c *Controller) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	category, err := c.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusCreated, category)
}

func (c *Controller) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid category id"))
		return
	}

	var req categoryRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	category, err := c.catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, category)
}

func (c *Controller) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid category id"))
		return
	}

	if err := c.catalog.DeleteCategory(r.Context(), id); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.NoContent(w)
}

func (c *Controller) SetProductFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	var req featuredRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.catalog.SetFeatured(r.Context(), id, req.Featured)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, product)
}
