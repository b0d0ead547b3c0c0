package responses

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, types.APIResponse{Success: true, Data: data})
}

func List(w http.ResponseWriter, status int, data any, meta *types.Meta) {
	write(w, status, types.APIResponse{Success: true, Data: data, Meta: meta})
}

// Error renders err using the code taxonomy and logs the full error
// chain. Unknown errors become a generic 500 so internals never leak
// to clients. A nil logger skips logging.
func Error(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	code := apperrors.CodeInternal
	var details any

	typed := apperrors.As(err)
	if typed != nil {
		code = typed.Code()
		details = typed.Details()
	}

	meta := apperrors.MetadataFor(code)
	apiErr := &types.APIError{
		Code:    string(code),
		Message: meta.PublicMessage,
	}
	if typed != nil && meta.HTTPStatus < http.StatusInternalServerError {
		apiErr.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		apiErr.Details = details
	}

	if logg != nil {
		dump := apperrors.Dump(err)
		fields := map[string]any{
			"error":       dump.TopMessage,
			"error_code":  dump.Code,
			"error_chain": dump.Chain,
		}
		if dump.PGCode != "" {
			fields["pg_code"] = dump.PGCode
			fields["pg_detail"] = dump.PGDetail
			fields["pg_message"] = dump.PGMessage
			fields["pg_table"] = dump.PGTable
			fields["pg_column"] = dump.PGColumn
			fields["pg_constraint"] = dump.PGConstraint
		}
		logg.Error(logg.WithFields(ctx, fields), "request.error", err)
	}

	write(w, meta.HTTPStatus, types.APIResponse{Success: false, Error: apiErr})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func write(w http.ResponseWriter, status int, body types.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
