// Package logging builds the structured logger used by the Lambda function.
package logging

import (
	"io"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	// FormatJSON emits one JSON object per line, which CloudWatch indexes.
	FormatJSON = "json"
	// FormatText emits human readable lines for local runs.
	FormatText = "text"
)

// Options configures New.
type Options struct {
	Level   string
	Format  string
	Verbose bool
	Output  io.Writer
}

// New creates a logger from opts. Unknown levels fall back to info.
func New(opts Options) *charm.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := charm.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = charm.InfoLevel
	}
	if opts.Verbose {
		level = charm.DebugLevel
	}

	formatter := charm.JSONFormatter
	if strings.EqualFold(opts.Format, FormatText) {
		formatter = charm.TextFormatter
	}

	return charm.NewWithOptions(out, charm.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: formatter == charm.TextFormatter,
	})
}

// ForRequest returns a child logger tagged with the request id.
// A random id is generated when the event carries none.
func ForRequest(logger *charm.Logger, requestID string) (*charm.Logger, string) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return logger.With("requestId", requestID), requestID
}

// Discard returns a logger that writes nowhere. Useful in tests.
func Discard() *charm.Logger {
	return charm.NewWithOptions(io.Discard, charm.Options{Level: charm.FatalLevel})
}
