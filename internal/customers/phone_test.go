package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellvision/wellvision/internal/shared"
)

func TestNormalizePhone(t *testing.T) {
	for _, in := range []string{"0771234567", "94771234567", "+94771234567", "771234567"} {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, "+94771234567", got, in)
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{"1234567890", "0112345678", "+1 555 0100", ""} {
		_, err := NormalizePhone(in)
		require.ErrorIs(t, err, shared.ErrValidation, in)
	}
}

func TestNormalizePhoneRejectsUnallocatedRange(t *testing.T) {
	// 079 matches the mobile pattern but is not an assigned LK mobile prefix.
	for _, in := range []string{"0791234567", "+94791234567"} {
		_, err := NormalizePhone(in)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr, in)
		assert.Contains(t, verr.Fields["tel"], "allocated", in)
	}
}

func TestNormalizePhoneAcceptsOperatorRanges(t *testing.T) {
	for in, want := range map[string]string{
		"0701112223": "+94701112223",
		"0719876543": "+94719876543",
		"0751234567": "+94751234567",
		"0761234567": "+94761234567",
		"0781234567": "+94781234567",
	} {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}
