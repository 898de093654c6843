// Package apitests contains the API contract tests themselves and their supporting API:
// per-resource clients, resource factories that clean up after each test, and the shared
// assertion for error responses.
//
// Test harness infrastructure that is not specific to this service, such as the test context
// and the shared HTTP session, is in the lower-level framework package.
package apitests
