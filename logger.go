package fsutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger = newConsoleLogger(zerolog.InfoLevel, os.Stderr)

// SetupLogger replaces the package logger with a console logger writing to
// out. Unknown levels fall back to info.
func SetupLogger(level string, out io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	defaultLogger = newConsoleLogger(lvl, out)
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return defaultLogger
}

func newConsoleLogger(level zerolog.Level, out io.Writer) zerolog.Logger {
	var output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}

	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	output.FormatFieldValue = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
