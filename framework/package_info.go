// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to any one API. The base package contains shared types such as
// CapturingLogger; other components are in the subpackages harness and ldtest.
//
// The general model is:
//
// 1. The test harness talks to a remote REST service through one shared HTTP session. Before
// any test runs, it checks that the service is reachable and accepts our credential.
//
// 2. There is a general notion of a test context which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results, debug output, and request/response attachments.
//
// 3. Each test owns an explicit list of cleanup actions, which are run when the test ends
// whether it passed or not.
//
// The domain-specific code that knows what is being tested is responsible for building
// requests, decoding responses, and providing a domain-specific test API on top of the test
// context.
package framework
