// Package modlog provides the append-only moderation action log.
//
// Every privileged mutation records one line of the form
//
//	time=<iso8601> name=<actor> action=<action> on=<target>
//
// after it commits. The log is write-only telemetry: there is no read
// or query API, and recording is best-effort from the caller's
// perspective. A failed append must never abort the mutation that
// triggered it.
package modlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	// Record appends one line describing a committed moderation
	// action. It never fails from the caller's perspective.
	Record(actor, action, target string)
}

// writerLogger serializes appends so that concurrent moderation
// actions never interleave mid-line and the log's line order matches
// the order in which Record is entered.
type writerLogger struct {
	mu  sync.Mutex
	w   io.Writer
	log logrus.FieldLogger

	now func() time.Time
}

func (l *writerLogger) Record(actor, action, target string) {
	line := fmt.Sprintf("time=%s name=%s action=%s on=%s\n",
		l.now().UTC().Format(time.RFC3339), actor, action, target)

	l.mu.Lock()
	_, err := io.WriteString(l.w, line)
	l.mu.Unlock()

	if err != nil && l.log != nil {
		l.log.WithError(err).Error("failed to append moderation log entry")
	}
}

// NewWriterLogger returns a Logger appending to w. Writes are
// serialized; w need not be safe for concurrent use.
func NewWriterLogger(w io.Writer, log logrus.FieldLogger) Logger {
	return &writerLogger{w: w, log: log, now: time.Now}
}

// NewFileLogger opens (or creates) an append-only log file at path.
// Every entry is written in a single unbuffered call, so lines reach
// the file as soon as Record returns.
func NewFileLogger(path string, log logrus.FieldLogger) (Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return NewWriterLogger(f, log), nil
}

// Memory is an in-memory Logger for tests.
type Memory struct {
	mu      sync.Mutex
	entries []string
}

func (m *Memory) Record(actor, action, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, fmt.Sprintf("name=%s action=%s on=%s", actor, action, target))
}

// Entries returns the recorded lines, sans timestamps, in append
// order.
func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

type nopLogger struct{}

func (nopLogger) Record(string, string, string) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
