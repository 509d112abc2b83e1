// Package guard intercepts diagnostic calls made while tests run and turns
// unexpected ones into a warning or a test failure.
//
// An Engine patches the channels of a console.Table, buffers unexpected calls
// per test and flushes them at lifecycle boundaries:
//
//	e := guard.New(guard.WithAction(guard.ActionError))
//	if err := e.BeforeAll(); err != nil { ... }  // once, before the first test
//	e.BeforeEach(guard.TestInfo{Name: name, Path: path})
//	// test body
//	if err := e.AfterEach(); err != nil { ... }  // fail the test
//	e.Teardown()
//
// The ginkgoguard and testguard packages wire these hooks into a test framework.
package guard

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/terassyi/consoleguard/console"
)

// testRun is the state of a running test. While a nested test runs, the
// enclosing run keeps its buffered calls and open groups here.
type testRun struct {
	info TestInfo
	skip bool

	calls  map[console.Method][]CapturedCall
	groups []string
}

// Engine is the interception and policy engine for one test suite.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	palette palette

	mu       sync.Mutex
	channels map[console.Method]*channel
	order    []console.Method
	groups   []string
	runs     []*testRun
}

// New builds an engine and installs wrappers on every enabled channel.
func New(opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:      cfg.clone(),
		logger:   cfg.Logger,
		palette:  newPalette(cfg.Color),
		channels: make(map[console.Method]*channel),
	}

	e.mu.Lock()
	for _, m := range console.Methods() {
		if cfg.Enabled(m) {
			e.install(m)
		}
	}
	for _, m := range console.GroupMethods() {
		e.install(m)
	}
	installed := slices.Clone(e.order)
	e.mu.Unlock()

	e.logger.Debug("channels installed", "methods", installed)
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg.clone()
}

// BeforeAll flushes calls made before the first test, such as those made
// while the suite was being set up.
func (e *Engine) BeforeAll() error {
	return e.flushAll()
}

// BeforeEach prepares the engine for a test: the group stack is reset and,
// unless the test is skipped, wrappers are re-established and buffers
// cleared. A skipped test runs with the original functions installed.
//
// Tests may nest, as subtests do. The enclosing test's buffered calls and
// groups are set aside until the nested test's AfterEach, so each call is
// flushed with the test that made it.
func (e *Engine) BeforeEach(info TestInfo) {
	skip := e.cfg.SkipTest != nil && e.cfg.SkipTest(info)
	if skip {
		e.logger.Debug("test runs uninstrumented", "test", info.Name, "path", info.Path)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if n := len(e.runs); n > 0 {
		parent := e.runs[n-1]
		parent.calls = make(map[console.Method][]CapturedCall, len(e.order))
		for _, m := range e.order {
			ch := e.channels[m]
			parent.calls[m] = ch.calls
			ch.calls = nil
		}
		parent.groups = slices.Clone(e.groups)
	}

	e.groups = nil
	e.runs = append(e.runs, &testRun{info: info, skip: skip})

	if skip {
		for _, m := range e.order {
			e.restore(e.channels[m])
		}
		return
	}

	for _, m := range e.order {
		ch := e.channels[m]
		e.activate(ch)
		ch.calls = nil
	}
}

// AfterEach flushes the calls buffered during the test and restores the
// original functions. Restoration happens on every path. The returned error
// joins one *errors.PolicyViolationError per offending channel when the
// action is ActionError.
//
// When the test was nested, the enclosing test resumes instead: its buffered
// calls and groups come back and its wrappers are re-established.
func (e *Engine) AfterEach() error {
	e.mu.Lock()
	var run *testRun
	if n := len(e.runs); n > 0 {
		run = e.runs[n-1]
		e.runs = e.runs[:n-1]
	}
	nested := len(e.runs) > 0
	e.mu.Unlock()

	skipped := run != nil && run.skip
	switch {
	case nested:
		defer e.resume()
	case !skipped:
		defer e.restoreAll()
	}

	if skipped {
		return nil
	}
	return e.flushAll()
}

// resume hands the channels back to the innermost remaining test.
func (e *Engine) resume() {
	e.mu.Lock()
	if len(e.runs) == 0 {
		e.mu.Unlock()
		return
	}
	parent := e.runs[len(e.runs)-1]
	for _, m := range e.order {
		ch := e.channels[m]
		ch.calls = parent.calls[m]
		if parent.skip {
			e.restore(ch)
		} else {
			e.activate(ch)
		}
	}
	e.groups = parent.groups
	parent.calls = nil
	parent.groups = nil
	name := parent.info.Name
	e.mu.Unlock()

	e.logger.Debug("test resumed", "test", name)
}

// Teardown restores the original functions and uninstalls every channel.
func (e *Engine) Teardown() {
	e.mu.Lock()
	for _, m := range e.order {
		ch := e.channels[m]
		e.restore(ch)
		ch.installed = false
		ch.calls = nil
	}
	e.runs = nil
	e.groups = nil
	n := len(e.order)
	e.mu.Unlock()

	e.logger.Debug("channels uninstalled", "count", n)
}

// Pending returns the calls buffered for m.
func (e *Engine) Pending(m console.Method) []CapturedCall {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch, ok := e.channels[m]; ok {
		return slices.Clone(ch.calls)
	}
	return nil
}

// Groups returns the open group labels, oldest first.
func (e *Engine) Groups() []string {
	return e.context().Groups
}

func (e *Engine) flushAll() error {
	e.mu.Lock()
	var targets []*channel
	for _, m := range e.order {
		if !m.IsGroup() {
			targets = append(targets, e.channels[m])
		}
	}
	e.mu.Unlock()

	var errs []error
	for _, ch := range targets {
		if err := e.flush(ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) restoreAll() {
	e.mu.Lock()
	for _, m := range e.order {
		e.restore(e.channels[m])
	}
	n := len(e.order)
	e.mu.Unlock()

	e.logger.Debug("channels restored", "count", n)
}
