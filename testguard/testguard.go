// Package testguard guards diagnostic calls in plain `go test` suites.
//
//	var engine = guard.New(guard.WithAction(guard.ActionError))
//
//	func TestMain(m *testing.M) {
//		os.Exit(testguard.Main(m, engine))
//	}
//
//	func TestCheckout(t *testing.T) {
//		testguard.Guard(t, engine)
//		// ...
//	}
package testguard

import (
	"fmt"
	"os"
	"runtime"
	"testing"

	"github.com/terassyi/consoleguard/guard"
)

// Guard instruments the running test. Calls left unexpected when the test
// finishes are reported through t.Error.
//
// A subtest may call Guard again; its calls are reported on the subtest and
// the parent's guard resumes when it finishes. Parallel subtests share the
// engine's channels and are not supported.
func Guard(t testing.TB, e *guard.Engine) {
	t.Helper()

	e.BeforeEach(guard.TestInfo{Name: t.Name(), Path: callerFile(2)})
	t.Cleanup(func() {
		if err := e.AfterEach(); err != nil {
			t.Error(err)
		}
	})
}

// Main runs the tests between the engine's suite hooks and returns the exit
// code for os.Exit. Calls made before the first test fail the run when the
// engine is configured to fail.
func Main(m *testing.M, e *guard.Engine) int {
	defer e.Teardown()

	if err := e.BeforeAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return m.Run()
}

func callerFile(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return file
}
