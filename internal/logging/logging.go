// Package logging builds the process-wide hclog logger.
package logging

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a named hclog.Logger. The QUELL_LOG_LEVEL environment
// variable takes priority over the level passed in (usually the CLI flag or
// config file value); both default to INFO.
func NewLogger(name, level string) hclog.Logger {
	if env := os.Getenv("QUELL_LOG_LEVEL"); env != "" {
		level = env
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stderr,
		Level:       parseLogLevel(strings.ToUpper(level)),
	})
}

// parseLogLevel converts a string level to hclog.Level.
func parseLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
