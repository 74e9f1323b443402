package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamps formatted as "HH:MM:SS.ms"
// that writes to w and filters messages below level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Progress logs the completion of an operation with its elapsed time.
// It is meant for sequential use by a single goroutine.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts timing an operation, logging to the context logger.
func NewProgress(ctx context.Context) *Progress {
	return &Progress{logger: log.FromContext(ctx), start: time.Now()}
}

// Done logs msg along with the elapsed time, e.g. "Generated 3 alias packages (12ms)".
func (p *Progress) Done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
