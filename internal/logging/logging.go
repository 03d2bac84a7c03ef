package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Format selects how log lines are rendered
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// Setup installs a slog default logger that writes through charmbracelet/log.
// Level is one of debug, info, warn or error.
func Setup(w io.Writer, level string, format Format) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "ccs-extract",
	}
	switch format {
	case FormatText, "":
		opts.Formatter = log.TextFormatter
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q (use text, json or logfmt)", format)
	}

	logger := slog.New(log.NewWithOptions(w, opts))
	slog.SetDefault(logger)
	return logger, nil
}
