package auth

import (
	"net/http"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/api/validators"
	authsvc "github.com/adityapratama/shopeasy-backend/internal/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

type Controller struct {
	svc  authsvc.Service
	logg *logger.Logger
}

func NewController(svc authsvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type updateProfileRequest struct {
	Name    *string        `json:"name" validate:"omitempty,min=1,max=120"`
	Address *types.Address `json:"address"`
}

func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.svc.Register(r.Context(), authsvc.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusCreated, user)
}

func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	user, pair, err := c.svc.Login(r.Context(), authsvc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	pair, err := c.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, pair)
}

func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	if err := c.svc.Logout(r.Context(), actor.UserID); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.NoContent(w)
}

func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	user, err := c.svc.Profile(r.Context(), actor.UserID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, user)
}

func (c *Controller) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	var req updateProfileRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.svc.UpdateProfile(r.Context(), actor.UserID, authsvc.UpdateProfileInput{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, user)
}
