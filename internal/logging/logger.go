// Package logging builds the zerolog logger used by the bip-orcid CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "BIP_ORCID_LOG_LEVEL"

// Config contains logger configuration options.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json, console).
	Format string

	// Output is the destination (stdout, stderr). Ignored when Writer is set.
	Output string

	// Writer replaces Output when non-nil.
	Writer io.Writer
}

// DefaultConfig logs info and above to stderr in console format,
// keeping stdout free for XML and JSON.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New creates a logger from cfg. The level of the returned logger is set on
// the logger itself; the zerolog global level is left alone.
func New(cfg Config) zerolog.Logger {
	output := cfg.Writer
	if output == nil {
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			output = os.Stdout
		default:
			output = os.Stderr
		}
	}

	if strings.ToLower(cfg.Format) == "console" || strings.ToLower(cfg.Format) == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.Writer != nil,
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(parseLevel(cfg.Level))
}

// LevelFromEnv returns the level named by EnvLevel, or fallback when unset.
func LevelFromEnv(fallback string) string {
	if v := os.Getenv(EnvLevel); v != "" {
		return v
	}
	return fallback
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithReference adds the reference being converted to a logger.
func WithReference(logger zerolog.Logger, refID, doi string) zerolog.Logger {
	return logger.With().
		Str("ref_id", refID).
		Str("doi", doi).
		Logger()
}

// WithInput adds the input file being read to a logger.
func WithInput(logger zerolog.Logger, path string) zerolog.Logger {
	return logger.With().
		Str("input", path).
		Logger()
}
