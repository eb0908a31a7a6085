package testutil

import (
	"os"
	"testing"
)

const envUseCI = "SHA2_CI"

// SkipCI skips long-running tests unless SHA2_CI is set.
func SkipCI(t testing.TB) {
	if os.Getenv(envUseCI) == "" {
		t.Skip("Skip SHA2 CI")
	}
}
