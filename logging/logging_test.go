package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/logging"
)

func TestSetup_ProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.SetupWithWriter("production", &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	componentLogger := logging.Component(logger, "scheduler")
	componentLogger.Info().Int("month", 10).Msg("roster generated")
	logger.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "roster generated", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetup_DevelopmentIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.SetupWithWriter("development", &buf)

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
