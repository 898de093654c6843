package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dummyapi-qa/contract-tests/framework/ldtest"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configPath string
	serviceURL string
	appID      string
	filters    ldtest.RegexFilters
	reportPath string
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", "", "YAML file with default settings")
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service (overrides HOST)")
	fs.StringVar(&c.appID, "app-id", "", "app-id credential (overrides API_TOKEN)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.reportPath, "report", "", "write a JSON report with request/response attachments to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return true
}

// rerunCommand returns a command line that runs only the specified tests, with the same
// settings as this run except for the test filters. The app-id is never included.
func (c commandParams) rerunCommand(program string, tests []ldtest.TestID) string {
	var cmd commandBuilder
	cmd.add(program)
	if c.configPath != "" {
		cmd.add("-config", c.configPath)
	}
	if c.serviceURL != "" {
		cmd.add("-url", c.serviceURL)
	}
	if c.debug {
		cmd.add("-debug")
	}
	for _, id := range tests {
		cmd.add("-run", ldtest.ExactPattern(id))
	}
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
