package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kars-hq/kars/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses across API namespaces.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

// WriteError renders err as an ErrorEnvelope. Coded errors keep their code;
// everything else gets a code derived from the HTTP status.
func WriteError(w http.ResponseWriter, status int, err error) error {
	var se *serrors.Error
	if errors.As(err, &se) {
		var meta map[string]string
		if se.Hint != "" {
			meta = map[string]string{"hint": se.Hint}
		}
		return WriteJSON(w, status, &ErrorEnvelope{
			Code:    se.Code,
			Message: se.Message,
			Meta:    meta,
		})
	}
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    codeFromStatus(status),
		Message: err.Error(),
	})
}

// WriteValidationErrors renders field-level validation failures as a 400.
func WriteValidationErrors(w http.ResponseWriter, errs serrors.ValidationErrors) error {
	meta := make(map[string]string, len(errs))
	for field, msg := range errs {
		meta[field] = msg
	}
	return WriteJSON(w, http.StatusBadRequest, &ErrorEnvelope{
		Code:    "VALIDATION_FAILED",
		Message: "request validation failed",
		Meta:    meta,
	})
}

func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// NotFound and MethodNotAllowed are the router fallbacks; every route in the
// service speaks JSON, so these do too.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusNotFound, &ErrorEnvelope{
			Code:    "NOT_FOUND",
			Message: "resource not found",
			Meta:    map[string]string{"path": r.URL.Path},
		})
	})
}

func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusMethodNotAllowed, &ErrorEnvelope{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
			Meta:    map[string]string{"method": r.Method, "path": r.URL.Path},
		})
	})
}
