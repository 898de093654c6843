package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dummyapi-qa/contract-tests/apitests"
	"github.com/dummyapi-qa/contract-tests/framework/harness"
	"github.com/dummyapi-qa/contract-tests/framework/ldtest"
	"github.com/dummyapi-qa/contract-tests/internal/logsetup"

	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"
)

func main() {
	closer.Bind(func() {
		log.Debug().Msg("shutdown")
	})
	exitCode := run(os.Args)
	if exitCode != 0 {
		closer.Exit(exitCode)
	}
	closer.Close()
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 2
	}

	cfg, err := loadConfig(params.configPath, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg.applyParams(params)

	if err := logsetup.Init(cfg.LogLevel, cfg.LogFmt); err != nil {
		fmt.Fprintf(os.Stderr, "Can't init logger: %s\n", err)
		return 1
	}
	if err := cfg.validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	h, err := harness.NewTestHarness(cfg.harnessConfig(), log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Service check failed")
		return 1
	}
	closer.Bind(h.Close)

	fmt.Println()
	ldtest.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := apitests.RunTestSuite(h, params.filters.AsFilter, testLogger)

	fmt.Println()
	PrintResults(os.Stdout, results)

	if params.reportPath != "" {
		if err := writeReport(params.reportPath, results); err != nil {
			log.Error().Err(err).Str("path", params.reportPath).Msg("Can't write report")
			return 1
		}
		log.Info().Str("path", params.reportPath).Msg("Wrote report")
	}

	if !results.OK() {
		failed := make([]ldtest.TestID, 0, len(results.Failures))
		for _, f := range results.Failures {
			failed = append(failed, f.TestID)
		}
		fmt.Printf("\nTo rerun the failed tests:\n  %s\n", params.rerunCommand(args[0], failed))
		return 1
	}
	return 0
}

func writeReport(path string, results ldtest.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ldtest.WriteJSONReport(f, results, time.Now()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
