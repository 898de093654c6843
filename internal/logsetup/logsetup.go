// Package logsetup configures the global zerolog logger from the LOG_LEVEL and LOG_FMT settings
// shared by both commands.
package logsetup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Init sets the global level and output format. Console output goes to stderr so that it does
// not interleave with test results on stdout.
func Init(level, format string) error {
	return initTo(os.Stderr, level, format)
}

func initTo(out io.Writer, level, format string) error {
	logLvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(logLvl)
	switch strings.ToLower(format) {
	case FormatConsole:
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	case FormatJSON:
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown output format %s", format)
	}
	return nil
}
