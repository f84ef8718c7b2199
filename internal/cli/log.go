// Package cli implements the popchart command-line interface.
//
// popchart reads a country/population CSV (a local file or an http(s) URL)
// and draws a horizontal bar chart of it. The CLI is built on cobra, logs
// through charmbracelet/log and styles its own output with lipgloss.
//
// # Commands
//
//   - render: write the chart as SVG, PNG, PDF, JSON or HTML
//   - scale: print the computed scales and bands as a table
//   - preview: browse the chart interactively in the terminal
//   - serve: serve the chart over HTTP
//   - cache: inspect or clear the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and handed to the pipeline runner.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step and logs it with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, plus any
// extra key/value pairs: "Rendered chart (12ms) formats=[svg png]".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+time.Since(p.start).Round(time.Millisecond).String()+")", keyvals...)
}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return log.WithContext(ctx, l)
}

// loggerFromContext returns the logger attached to ctx, or the package
// default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}
