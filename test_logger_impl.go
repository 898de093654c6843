package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dummyapi-qa/contract-tests/framework"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen)
	nameColor    = color.New(color.Faint)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id ldtest.TestID) {
	nameColor.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id ldtest.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id ldtest.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id ldtest.TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes a summary of the run: every failed test with its errors, then the totals.
func PrintResults(out io.Writer, results ldtest.Results) {
	skipped := 0
	for _, r := range results.Tests {
		if r.Skipped {
			skipped++
		}
	}
	if len(results.Failures) > 0 {
		failedColor.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, f := range results.Failures {
			fmt.Fprintf(out, "  * %s\n", f.TestID)
			for _, e := range f.Errors {
				for _, line := range strings.Split(e.Error(), "\n") {
					fmt.Fprintf(out, "      %s\n", line)
				}
			}
		}
		fmt.Fprintln(out)
	}
	summary := fmt.Sprintf("%d tests, %d failed, %d skipped", len(results.Tests), len(results.Failures), skipped)
	if results.OK() {
		passedColor.Fprintf(out, "All tests passed: %s\n", summary)
	} else {
		failedColor.Fprintf(out, "Some tests failed: %s\n", summary)
	}
}
