package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.Nil(t, cfg.Writer)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Writer: &buf})

	logger.Debug().Str("key", "value").Msg("converted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "converted", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Writer: &buf})

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "console", Writer: &buf})

	logger.Info().Str("ref_id", "Doe2020").Msg("exported")

	out := buf.String()
	assert.Contains(t, out, "exported")
	assert.Contains(t, out, "ref_id=Doe2020")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "")
	assert.Equal(t, "info", LevelFromEnv("info"))

	t.Setenv(EnvLevel, "debug")
	assert.Equal(t, "debug", LevelFromEnv("info"))
}

func TestWithReference(t *testing.T) {
	var buf bytes.Buffer
	logger := WithReference(New(Config{Format: "json", Writer: &buf}), "Doe2020", "10.1/x")

	logger.Info().Msg("converted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Doe2020", entry["ref_id"])
	assert.Equal(t, "10.1/x", entry["doi"])
}

func TestWithInput(t *testing.T) {
	var buf bytes.Buffer
	logger := WithInput(New(Config{Format: "json", Writer: &buf}), "work.yml")

	logger.Info().Msg("loaded")
	assert.Contains(t, buf.String(), `"input":"work.yml"`)
}
