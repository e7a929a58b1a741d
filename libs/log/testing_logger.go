package log

import (
	"os"
	"testing"
)

var (
	// reuse the same logger across all tests
	testingLogger Logger
)

// TestingLogger returns a Logger which writes to STDOUT if test verbosity (-v)
// is on, and a NopLogger otherwise.
//
// NOTE:
//   - A call to TestingLogger() must be made inside a test (not in the init func)
//     because verbose flag only set at the time of testing.
func TestingLogger() Logger {
	if testingLogger != nil {
		return testingLogger
	}

	if testing.Verbose() {
		testingLogger = NewLogger(os.Stdout)
	} else {
		testingLogger = NewNopLogger()
	}

	return testingLogger
}
