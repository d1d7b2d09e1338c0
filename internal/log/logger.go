// Package log builds the slog.Logger used across the CLI, with zerolog doing
// the console or JSON output.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
)

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger returns a slog logger backed by zerolog. format is "json" or
// "console".
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	var zerologLogger zerolog.Logger
	switch format {
	case "json":
		zerologLogger = zerolog.New(w).With().Timestamp().Logger()
	case "console", "":
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	default:
		return nil, fmt.Errorf("invalid log format %q (expected console or json)", format)
	}
	return slog.New(slogzerolog.Option{Level: level, Logger: &zerologLogger}.NewZerologHandler()), nil
}
