package matching

import (
	"testing"

	"go.uber.org/goleak"
)

// El fan-out de proximidad no debe dejar goroutines vivas.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
