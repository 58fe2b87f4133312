// Package progress writes the milestone audit log: one "<timestamp> : <message>"
// line per pipeline checkpoint, appended to a file that is never truncated.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// TimestampLayout renders Year-MonthAbbrev-Day-Hour:Minute:Second.
const TimestampLayout = "2006-Jan-02-15:04:05"

// Milestones, in the order a successful run logs them.
const (
	Preliminaries  = "Preliminaries complete. Initiating ETL process"
	Extracted      = "Data extraction complete. Initiating Transformation process"
	Transformed    = "Data transformation complete. Initiating loading process"
	CSVSaved       = "Data saved to CSV file"
	ConnectionOpen = "SQL Connection initiated."
	DBLoaded       = "Data loaded to Database as table. Running the query"
	Complete       = "Process Complete."
)

// Logger appends milestone lines to a single writer held for the whole run.
// Write failures are reported through slog and never returned.
type Logger struct {
	w      io.Writer
	closer io.Closer
	now    func() time.Time
	logger *slog.Logger
	warned bool
}

type Option func(*Logger)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// WithLogger sets where append failures are reported.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) { l.logger = logger }
}

// New logs to w. A nil w gives a logger that only echoes milestones to slog.
func New(w io.Writer, opts ...Option) *Logger {
	l := &Logger{
		w:      w,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open opens path for appending, creating it if needed.
func Open(path string, opts ...Option) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open progress log %s: %w", path, err)
	}
	l := New(f, opts...)
	l.closer = f
	return l, nil
}

// Line formats a single log line without the trailing newline.
func Line(t time.Time, message string) string {
	return t.Format(TimestampLayout) + " : " + message
}

// Log appends one line. It never fails the caller.
func (l *Logger) Log(message string) {
	l.logger.Info("milestone", "message", message)
	if l.w == nil {
		return
	}

	if _, err := io.WriteString(l.w, Line(l.now(), message)+"\n"); err != nil && !l.warned {
		// Only the first failure is reported; a broken sink stays broken.
		l.warned = true
		l.logger.Warn("failed to append to progress log", "error", err)
	}
}

// Close releases the underlying file, if Open created one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
