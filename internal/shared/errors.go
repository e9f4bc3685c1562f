package shared

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing input fields.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidArgument indicates a programmer-supplied argument out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateKey indicates a uniqueness constraint collision.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrConflict marks a duplicate the caller can resolve by changing its input.
	ErrConflict = errors.New("conflict")
	// ErrStorageUnavailable indicates the persistence layer could not serve the call.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptRecord marks a stored row that cannot be decoded. Retrying will not help.
	ErrCorruptRecord = errors.New("corrupt record")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UserSafeMessage returns a message safe to expose to API clients.
func UserSafeMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateKey):
		return err.Error()
	case errors.Is(err, ErrInvalidArgument):
		return err.Error()
	case errors.Is(err, ErrStorageUnavailable):
		return "storage temporarily unavailable, please retry"
	default:
		return "internal server error"
	}
}
