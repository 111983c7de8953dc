package modlog

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

var lineRE = regexp.MustCompile(`^time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z name=(\S+) action=(\S+) on=(.+)$`)

func TestRecordLineFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := &writerLogger{w: buf, now: func() time.Time {
		return time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC)
	}}

	l.Record("alice", "set_flags", "4 -> 33")

	line := strings.TrimSuffix(buf.String(), "\n")
	if line != "time=2016-01-02T03:04:05Z name=alice action=set_flags on=4 -> 33" {
		t.Errorf("line = %q", line)
	}
	if !lineRE.MatchString(line) {
		t.Errorf("line %q doesn't match the log grammar", line)
	}
}

func TestRecordSerializesConcurrentAppends(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWriterLogger(buf, nil)

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				l.Record("mod", "delete_quotes", "42")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("got %d lines, want %d", len(lines), writers*perWriter)
	}
	for i, line := range lines {
		if !lineRE.MatchString(line) {
			t.Fatalf("line %d corrupted: %q", i, line)
		}
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moderation.log")

	l, err := NewFileLogger(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("alice", "post_quotes", "1")

	// reopening must append, not truncate
	l, err = NewFileLogger(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Record("bob", "edit_quotes", "1")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "name=alice") || !strings.Contains(lines[1], "name=bob") {
		t.Errorf("lines out of order: %q", lines)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestRecordNeverPropagatesWriteFailures(t *testing.T) {
	// no logrus logger attached either; Record must simply swallow it
	l := NewWriterLogger(failingWriter{}, nil)
	l.Record("alice", "post_quotes", "1")
}

func TestMemoryOrder(t *testing.T) {
	m := &Memory{}
	m.Record("a", "post_quotes", "1")
	m.Record("b", "edit_quotes", "2")

	entries := m.Entries()
	if len(entries) != 2 || !strings.HasPrefix(entries[0], "name=a ") || !strings.HasPrefix(entries[1], "name=b ") {
		t.Errorf("entries = %q", entries)
	}
}

func TestNop(t *testing.T) {
	Nop().Record("a", "b", "c")
}
