package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellvision/wellvision/internal/shared"
)

func TestParseSums(t *testing.T) {
	var row Row
	require.NoError(t, parseSums(&row, "1500.50", "500", "1000.50"))
	assert.Equal(t, "1000.50", row.Balance.StringFixed(2))

	err := parseSums(&row, "1500.50", "five hundred", "0")
	require.ErrorIs(t, err, shared.ErrCorruptRecord)
	assert.NotErrorIs(t, err, shared.ErrStorageUnavailable)
}
