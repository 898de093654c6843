package logsetup

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	level, logger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	})
}

func TestInitJSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	require.NoError(t, initTo(&buf, "WARN", FormatJSON))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestInitConsole(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	require.NoError(t, initTo(&buf, "debug", FormatConsole))
	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestInitRejectsUnknownSettings(t *testing.T) {
	restoreGlobals(t)

	assert.Error(t, initTo(&bytes.Buffer{}, "loud", FormatJSON))
	assert.EqualError(t, initTo(&bytes.Buffer{}, "info", "xml"), "unknown output format xml")
}
