// Package logging builds the zerolog logger shared by commands and sessions.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type Format string

const (
	FormatAuto   Format = "auto"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

const (
	defaultLevel  = zerolog.InfoLevel
	timeFormatLog = time.RFC3339
)

// New returns a logger writing to w at the given level. FormatAuto picks
// the console writer when w is a terminal.
func New(w io.Writer, level string, format Format) (zerolog.Logger, error) {
	lvl := defaultLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	out := w
	switch format {
	case FormatPretty:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormatLog}
	case FormatJSON, "":
	case FormatAuto:
		if isTerminal(w) {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormatLog}
		}
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log format %q", format)
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
