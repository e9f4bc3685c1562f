package httpx

import (
	"errors"
	"net/http"

	"github.com/wellvision/wellvision/internal/shared"
)

// StatusFor maps an error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		// Includes shared.ErrDuplicateKey: a bill number collision is a server fault.
		return http.StatusInternalServerError
	}
}

// RespondError writes the failure envelope for err.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		Failure(w, status, "validation failed", verr.Fields)
		return
	}
	Failure(w, status, shared.UserSafeMessage(err), nil)
}
