package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Rs string `json:"rs" validate:"required,digits"`
}

type sampleForm struct {
	Tel     string       `json:"tel" validate:"required,lktel"`
	Advance string       `json:"advance" validate:"omitempty,amount"`
	Items   []sampleLine `json:"items" validate:"required,min=1,dive"`
	Name    *string      `json:"name" validate:"omitempty,min=1,max=5"`
}

func TestValidateStructUsesJSONPaths(t *testing.T) {
	v := NewValidator()
	empty := ""
	err := ValidateStruct(v, sampleForm{
		Tel:     "12345",
		Advance: "12.555",
		Items:   []sampleLine{{Rs: "1a"}},
		Name:    &empty,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "must be a valid Sri Lankan mobile number", verr.Fields["tel"])
	assert.Equal(t, "must be a non-negative amount with at most two decimals", verr.Fields["advance"])
	assert.Equal(t, "must contain digits only", verr.Fields["items[0].rs"])
	assert.Equal(t, "must not be empty", verr.Fields["name"])
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	v := NewValidator()
	for _, tel := range []string{"0771234567", "94771234567", "+94771234567", "771234567"} {
		require.NoError(t, ValidateStruct(v, sampleForm{Tel: tel, Advance: "12.50", Items: []sampleLine{{Rs: "100"}}}), tel)
	}
}

func TestValidateStructEmptyItems(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleForm{Tel: "0771234567"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["items"])
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"tel": "bad", "name": "missing"}}
	assert.Equal(t, "validation failed: name: missing; tel: bad", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}

func TestUserSafeMessage(t *testing.T) {
	assert.Equal(t, "", UserSafeMessage(nil))
	assert.Equal(t, "record not found", UserSafeMessage(ErrNotFound))
	assert.Equal(t, "storage temporarily unavailable, please retry", UserSafeMessage(ErrStorageUnavailable))
	assert.Equal(t, "internal server error", UserSafeMessage(errors.New("pq: password=secret")))
	assert.Contains(t, UserSafeMessage(NewValidationError("tel", "bad")), "tel: bad")
}
