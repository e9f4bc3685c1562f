// Package httpx provides the JSON envelope used by every API response.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wellvision/wellvision/internal/shared"
)

const maxBodyBytes = 1 << 20

// Envelope is the failure body: {"success": false, "message": ..., "errors": ...}.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success writes fields merged with "success": true.
func Success(w http.ResponseWriter, status int, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, status, body)
}

// Failure writes the failure envelope.
func Failure(w http.ResponseWriter, status int, message string, fieldErrors map[string]string) {
	JSON(w, status, Envelope{Success: false, Message: message, Errors: fieldErrors})
}

// DecodeJSON decodes a request body into target. Malformed bodies become a
// *shared.ValidationError on the "body" field.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return shared.NewValidationError("body", "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewValidationError("body", "request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return shared.NewValidationError(typeErr.Field, fmt.Sprintf("must be a %s", typeErr.Type))
		}
		return shared.NewValidationError("body", "malformed JSON")
	}
	return nil
}
