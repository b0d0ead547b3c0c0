package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/api/responses"
	catalogsvc "github.com/adityapratama/shopeasy-backend/internal/catalog"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

type Controller struct {
	svc  catalogsvc.Service
	logg *logger.Logger
}

func NewController(svc catalogsvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.ListProducts(r.Context(), params)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.List(w, http.StatusOK, result.Products, &types.Meta{
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	})
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	product, err := c.svc.GetProduct(r.Context(), id)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, product)
}

func (c *Controller) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, apperrors.New(apperrors.CodeValidation, "invalid product id"))
		return
	}

	related, err := c.svc.RelatedProducts(r.Context(), id, queryInt(r, "limit"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, related)
}

func (c *Controller) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	featured, err := c.svc.FeaturedProducts(r.Context(), queryInt(r, "limit"))
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, featured)
}

func (c *Controller) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.svc.ListCategories(r.Context())
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	responses.JSON(w, http.StatusOK, categories)
}

func parseListParams(r *http.Request) (catalogsvc.ListParams, error) {
	q := r.URL.Query()

	params := catalogsvc.ListParams{
		CategorySlug: q.Get("category"),
		Search:       q.Get("q"),
		Cursor:       q.Get("cursor"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	}

	if sort := q.Get("sort"); sort != "" {
		parsed := enums.ProductSort(sort)
		if !parsed.Valid() {
			return params, apperrors.New(apperrors.CodeValidation, "unknown sort")
		}
		params.Sort = parsed
	}

	var err error
	if params.MinPriceCents, err = queryCents(r, "min_price_cents"); err != nil {
		return params, err
	}
	if params.MaxPriceCents, err = queryCents(r, "max_price_cents"); err != nil {
		return params, err
	}
	return params, nil
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}

func queryCents(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, name+" must be a non-negative integer")
	}
	return &value, nil
}
