package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/wellvision/wellvision/testing"
)

func TestInTestModeFollowsEnvironment(t *testing.T) {
	assert.True(t, InTestMode())

	for value, want := range map[string]bool{"0": false, "": false, "yes": false, "true": true, "1": true} {
		t.Setenv(testModeEnv, value)
		assert.Equal(t, want, InTestMode(), value)
	}
}
