// Package servicedef describes the wire contract of the service under test: endpoint URLs,
// request payloads, response shapes, and error codes.
//
// Nothing in this package performs network requests or depends on the test framework, so
// everything here can be checked with ordinary unit tests.
package servicedef
