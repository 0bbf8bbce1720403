package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/halcyonlabs/accountd/pkg/httpx"
)

// Response is the envelope every endpoint answers with. Data carries the
// payload on success; Errors carries per-field validation failures.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError is one validation failure attributed to a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	httpx.WriteJSON(w, code, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, Response{
		Success: false,
		Message: message,
	})
}

func writeValidationFailed(w http.ResponseWriter, fieldErrors []FieldError) {
	httpx.WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}

// writeServerError hides the cause: internal failures are logged at the point
// of occurrence, never described to the caller.
func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parses the request body into dst, rejecting oversized and
// malformed payloads. Unknown fields are ignored so clients can't smuggle
// role or status changes through self-service endpoints.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
