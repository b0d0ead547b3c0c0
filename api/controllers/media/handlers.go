package media

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adityapratama/shopeasy-backend/api/responses"
	mediasvc "github.com/adityapratama/shopeasy-backend/internal/media"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

type Controller struct {
	svc  mediasvc.Service
	logg *logger.Logger
}

func NewController(svc mediasvc.Service, logg *logger.Logger) *Controller {
	return &Controller{svc: svc, logg: logg}
}

func (c *Controller) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "imageName")

	f, err := c.svc.OpenImage(name)
	if err != nil {
		responses.Error(r.Context(), c.logg, w, err)
		return
	}
	defer f.Close()

	contentType := "image/jpeg"
	if strings.HasSuffix(name, ".png") {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, f)
}
