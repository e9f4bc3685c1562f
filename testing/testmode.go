// Package testing switches the process into test mode when imported for side
// effects. Test mode silences access logs and keeps the binaries from starting
// servers.
package testing

import "os"

func init() {
	if os.Getenv("WELLVISION_TEST_MODE") == "" {
		_ = os.Setenv("WELLVISION_TEST_MODE", "1")
	}
}
