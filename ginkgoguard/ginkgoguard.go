// Package ginkgoguard guards diagnostic calls in Ginkgo suites.
//
// Call Configure while the spec tree is built. At the top level of a suite
// file it guards every spec in the suite; inside a container it guards the
// specs of that container:
//
//	var _ = ginkgoguard.Configure(guard.WithAction(guard.ActionError))
package ginkgoguard

import (
	"sync"

	"github.com/onsi/ginkgo/v2"

	"github.com/terassyi/consoleguard/guard"
)

// Failure reporting, replaced in tests.
var (
	fail       = ginkgo.Fail
	abortSuite = ginkgo.AbortSuite
)

// Configure builds an engine and registers the hooks that drive it.
//
// The first spec to run also flushes calls made while the suite was being
// constructed; a violation there aborts the suite. Each spec is then
// instrumented and a violation at its end fails the spec.
func Configure(opts ...guard.Option) *guard.Engine {
	e := guard.New(opts...)

	var once sync.Once
	ginkgo.BeforeEach(func() {
		var err error
		once.Do(func() {
			err = e.BeforeAll()
		})
		if err != nil {
			abortSuite(err.Error())
		}

		report := ginkgo.CurrentSpecReport()
		e.BeforeEach(guard.TestInfo{
			Name: report.FullText(),
			Path: report.FileName(),
		})
		ginkgo.DeferCleanup(func() {
			if err := e.AfterEach(); err != nil {
				fail(err.Error())
			}
		})
	})

	return e
}
