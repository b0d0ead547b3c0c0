package seller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/api/validators"
	catalogsvc "github.com/adityapratama/shopeasy-backend/internal/catalog"
	mediasvc "github.com/adityapratama/shopeasy-backend/internal/media"
	storesvc "github.com/adityapratama/shopeasy-backend/internal/stores"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

const maxImageUploadBytes = 5 << 20

type Controller struct {
	catalog catalogsvc.Service
	stores  storesvc.Service
	media   mediasvc.Service
	logg    *logger.Logger
}

func NewController(catalog catalogsvc.Service, stores storesvc.Service, media mediasvc.Service, logg *logger.Logger) *Controller {
	return &Controller{catalog: catalog, stores: stores, media: media, logg: logg}
}

type storeUpdateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=160"`
	Description string `json:"description" validate:"max=2000"`
}

type productRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	PriceCents   int64  `json:"price_cents" validate:"gte=0"`
	Stock        int    `json:"stock" validate:"gte=0"`
	CategorySlug string `json:"category_slug"`
}

func (c *Controller) GetStore(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())
	store, err := c.stores.GetByOwner(r.Context(), actor.UserID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, store)
}

func (c *Controller) UpdateStore(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	var req storeUpdateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	store, err := c.stores.UpdateProfile(r.Context(), actor.UserID, req.Name, req.Description)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, store)
}

func (c *Controller) UploadStoreLogo(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "image upload too large or malformed"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "image file is required"))
		return
	}
	defer file.Close()

	store, err := c.media.AttachStoreLogo(r.Context(), actor.UserID, file, header.Filename)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, store)
}

func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	store, err := c.stores.GetByOwner(r.Context(), actor.UserID)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := c.catalog.ListStoreProducts(r.Context(), store.ID, page, limit)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, products)
}

func (c *Controller) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	var req productRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.catalog.CreateProduct(r.Context(), actor, toInput(req))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusCreated, product)
}

func (c *Controller) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	var req productRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	product, err := c.catalog.UpdateProduct(r.Context(), actor, id, toInput(req))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, product)
}

func (c *Controller) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	if err := c.catalog.DeactivateProduct(r.Context(), actor, id); err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.NoContent(w)
}

func (c *Controller) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustActor(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "image upload too large or malformed"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "image file is required"))
		return
	}
	defer file.Close()

	product, err := c.media.AttachProductImage(r.Context(), actor, id, file, header.Filename)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, product)
}

func toInput(req productRequest) catalogsvc.ProductInput {
	return catalogsvc.ProductInput{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Stock:        req.Stock,
		CategorySlug: req.CategorySlug,
	}
}
