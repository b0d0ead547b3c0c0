package middleware

import (
	"fmt"
	"net/http"

	"github.com/adityapratama/shopeasy-backend/api/responses"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

// Recoverer turns handler panics into logged 500 responses.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					responses.Error(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeInternal, err, "handling request"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
