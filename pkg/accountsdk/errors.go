package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one validation failure attributed to a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the service. Validation failures carry
// the individual field errors in Fields.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("accountsdk: %d %s", e.StatusCode, e.Message)
	}

	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("accountsdk: %d %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

// IsUnauthorized reports whether the service rejected the credential.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// IsForbidden reports whether the caller lacked permission or the account is
// deactivated.
func (e *APIError) IsForbidden() bool { return e.StatusCode == http.StatusForbidden }

// parseErrorResponse turns a non-2xx body into an APIError.
func parseErrorResponse(statusCode int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Message:    env.Message,
			Fields:     env.Errors,
		}
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
	}
}
