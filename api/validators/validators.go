package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSONBody parses and validates a request body into dst. dst must be
// a pointer to a struct carrying validate tags.
func DecodeJSONBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.New(apperrors.CodeValidation, "request body is required")
		default:
			return apperrors.New(apperrors.CodeValidation, "request body is not valid JSON")
		}
	}
	if decoder.More() {
		return apperrors.New(apperrors.CodeValidation, "request body must contain a single JSON object")
	}

	return Struct(dst)
}

// Struct validates tagged fields on an already-populated value.
func Struct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperrors.Wrap(apperrors.CodeInternal, err, "validating request")
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[strings.ToLower(fe.Field())] = ruleMessage(fe)
		}
		return apperrors.New(apperrors.CodeValidation, "validation failed").WithDetails(details)
	}

	return apperrors.Wrap(apperrors.CodeInternal, err, "validating request")
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
