package ldtest

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/dummyapi-qa/contract-tests/framework"
)

// TestConfiguration contains the parameters that apply to an entire test run.
type TestConfiguration struct {
	// Filter, if not nil, decides which tests are run.
	Filter Filter

	// TestLogger, if not nil, receives notifications about test progress.
	TestLogger TestLogger

	// Context is an arbitrary value that domain-specific test code can retrieve with
	// T.Context(). It is normally a struct holding the harness and API clients.
	Context interface{}
}

type environment struct {
	config  TestConfiguration
	results Results
}

// T represents a test or subtest.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features that are convenient for API
// contract tests: debug output that is only shown when needed, request/response attachments
// that are carried into the test report, and an explicit list of cleanup actions.
//
// To make test assertions, use the assert and require packages, passing the *T as if it were
// a *testing.T.
type T struct {
	env         *environment
	id          TestID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	attachments []Attachment
}

// Run executes a test run. The action receives a root T, which normally only calls Run to
// start the top-level test groups.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			t.handlePanic(r, "test")
		}
		t.runCleanups()
		t.recordResult()
	}()

	action(t)
}

func (t *T) handlePanic(r interface{}, where string) {
	if r == t {
		if t.skipped && !t.failed {
			return
		}
		t.failed = true
		if len(t.errors) == 0 {
			t.addError(errors.New(where + " failed with no failure message"))
		}
		return
	}
	t.failed = true
	t.addError(fmt.Errorf("unexpected panic in %s: %+v\n%s", where, r, string(debug.Stack())))
}

func (t *T) runCleanups() {
	for len(t.cleanups) > 0 {
		last := len(t.cleanups) - 1
		cleanup := t.cleanups[last]
		t.cleanups = t.cleanups[:last]
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.handlePanic(r, "cleanup")
				}
			}()
			cleanup()
		}()
	}
}

func (t *T) recordResult() {
	if len(t.id.Path) == 0 && !t.failed {
		return // the root scope only shows up in results if something went wrong outside of any test
	}
	result := TestResult{
		TestID:      t.id,
		Errors:      t.errors,
		Skipped:     t.skipped && !t.failed,
		SkipReason:  t.skipReason,
		Attachments: t.attachments,
	}
	t.env.results.Tests = append(t.env.results.Tests, result)
	if t.failed {
		t.env.results.Failures = append(t.env.results.Failures, result)
	}
}

func (t *T) addError(err error) {
	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

// ID returns the full identifier of this test.
func (t *T) ID() TestID {
	return t.id
}

// Context returns the domain-specific value that was set in TestConfiguration.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	t1 := &T{
		id:  id,
		env: t.env,
	}
	t1.run(action)
	if t1.skipped && !t1.failed {
		logger.TestSkipped(id, t1.skipReason)
	} else {
		logger.TestFinished(id, t1.failed, t1.debugLogger.Output())
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	t.addError(errors.New(strings.TrimLeft(fmt.Sprintf(format, args...), "\n\t ")))
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods
// in the require package call FailNow.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Failed reports whether the test has failed so far.
func (t *T) Failed() bool {
	return t.failed
}

// Helper exists so that testify recognizes T as a helper-aware TestingT; it does nothing.
func (t *T) Helper() {}

// Skip stops the test immediately and reports it as skipped rather than passed or failed.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Defer schedules an action to be run when this test ends, whether it passed, failed, or
// panicked. Actions run in the reverse of the order they were added. A failure or panic inside
// one of them is recorded as a test failure, and the remaining actions still run.
//
// Defer may also be called from within a deferred action; the new action then runs before any
// that were already pending.
func (t *T) Defer(action func()) {
	t.cleanups = append(t.cleanups, action)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// Attach adds a named piece of data to this test's result, for inclusion in the test report.
// The data is also written to the test's debug output.
func (t *T) Attach(name, contentType string, data []byte) {
	t.attachments = append(t.attachments, Attachment{
		Name:        name,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	})
	t.debugLogger.Printf("%s:\n%s", name, string(data))
}

// Attachments returns the data attached to this test so far.
func (t *T) Attachments() []Attachment {
	return append([]Attachment(nil), t.attachments...)
}
