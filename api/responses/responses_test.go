package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

func TestJSONWrapsPayload(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success envelope")
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := apperrors.New(apperrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	Error(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body.Success {
		t.Fatalf("error envelope must not be marked success")
	}
	if body.Error.Code != string(apperrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	Error(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if strings.Contains(body.Error.Message, "boom") {
		t.Fatalf("internal detail leaked to the client: %s", body.Error.Message)
	}
}

func TestErrorLogsChain(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{
		ServiceName: "responses-test",
		Level:       zerolog.ErrorLevel,
		Output:      &buf,
	})

	w := httptest.NewRecorder()
	cause := errors.New("connection refused")
	Error(context.Background(), logg, w, apperrors.Wrap(apperrors.CodeDependency, cause, "pinging redis"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if line["error_code"] != string(apperrors.CodeDependency) {
		t.Fatalf("unexpected error_code %v", line["error_code"])
	}
	if msg, _ := line["error"].(string); !strings.Contains(msg, "pinging redis") {
		t.Fatalf("log should carry the top message, got %v", line["error"])
	}

	chain, ok := line["error_chain"].([]any)
	if !ok {
		t.Fatalf("log should carry the error chain, got %T", line["error_chain"])
	}
	var foundCause bool
	for _, entry := range chain {
		if msg, _ := entry.(string); strings.Contains(msg, "connection refused") {
			foundCause = true
		}
	}
	if !foundCause {
		t.Fatalf("chain should carry the cause, got %v", chain)
	}
}
