package app

import (
	"os"
	"strconv"
)

const testModeEnv = "WELLVISION_TEST_MODE"

// InTestMode reports whether WELLVISION_TEST_MODE holds a true value ("1",
// "true", ...). Binaries exit early and the router drops access logs.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(testModeEnv))
	return err == nil && on
}
