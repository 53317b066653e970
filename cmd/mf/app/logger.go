package app

import (
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/pkg/logging"
)

// NewLogger builds the application logger. Level precedence:
// --log-level, then -v/-q shortcuts, then LOG_LEVEL, then info.
func NewLogger(config *Config) zerolog.Logger {
	logging.Configure(&logging.Config{
		Level:   determineLogLevel(config),
		Format:  config.LogFormat,
		NoColor: config.NoColor,
	})
	return *logging.Default()
}

func determineLogLevel(config *Config) string {
	switch {
	case config.Verbose && config.Quiet:
		// Quiet is the more restrictive request; honor it.
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	case config.LogLevel != "":
		return validateLogLevel(config.LogLevel)
	default:
		return "info"
	}
}

func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
