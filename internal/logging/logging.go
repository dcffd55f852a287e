// Package logging implements spec.md §6's "Log file": UTC-timestamped
// lines, flushed at a fixed interval (default 500ms), truncated at start.
// Adapted from the teacher's internal/io/console.go ConsoleHandle/
// ConsoleManager pattern — a mutex-guarded handle plus atomic stats
// counters — retargeted from stdin/stdout/stderr streams to a single
// buffered, ticker-flushed run log.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// DefaultFlushInterval is spec.md §6's stated default.
const DefaultFlushInterval = 500 * time.Millisecond

// Stats mirrors the teacher's ConsoleStats shape, scoped to one log file.
type Stats struct {
	LinesWritten uint64
	BytesWritten uint64
	FlushCount   uint64
}

// Logger is a truncate-on-open, ticker-flushed log file. A Logger with a
// nil file is a valid no-op (used when spec.md's optional logFile flag is
// unset), so callers never need to nil-check before logging.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	buf  bytes.Buffer

	stats Stats

	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

// Open truncates path (or creates it) and starts a background flush loop.
// An empty path returns a working no-op Logger — spec.md's logFile option
// has no default, i.e. logging is off unless configured.
func Open(path, comment string, interval time.Duration) (*Logger, error) {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	l := &Logger{interval: interval}

	if path == "" {
		return l, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, kerr.Wrap(kerr.BadConfig, err, "logging: failed to open log file %q", path)
	}
	l.file = f

	if comment != "" {
		l.writeLine(fmt.Sprintf("# %s", comment))
	}

	l.done = make(chan struct{})
	l.ticker = time.NewTicker(interval)
	go l.flushLoop()

	return l, nil
}

// Printf appends one UTC-timestamped line. Safe for concurrent use.
func (l *Logger) Printf(format string, args ...any) {
	l.writeLine(fmt.Sprintf(format, args...))
}

func (l *Logger) writeLine(line string) {
	if l.file == nil {
		return
	}

	l.mu.Lock()
	l.buf.WriteString(time.Now().UTC().Format(time.RFC3339Nano))
	l.buf.WriteByte(' ')
	l.buf.WriteString(line)
	l.buf.WriteByte('\n')
	l.mu.Unlock()

	atomic.AddUint64(&l.stats.LinesWritten, 1)
	atomic.AddUint64(&l.stats.BytesWritten, uint64(len(line))+1)
}

func (l *Logger) flushLoop() {
	for {
		select {
		case <-l.ticker.C:
			_ = l.Flush()
		case <-l.done:
			return
		}
	}
}

// Flush writes any buffered lines to disk. Called on the ticker interval
// and once more from Close to avoid losing the final partial interval.
func (l *Logger) Flush() error {
	if l.file == nil {
		return nil
	}

	l.mu.Lock()
	pending := l.buf.Bytes()
	var data []byte
	if len(pending) > 0 {
		data = append(data, pending...)
		l.buf.Reset()
	}
	l.mu.Unlock()

	if len(data) == 0 {
		return nil
	}
	if _, err := l.file.Write(data); err != nil {
		return kerr.Wrap(kerr.BadState, err, "logging: failed to write log file")
	}
	atomic.AddUint64(&l.stats.FlushCount, 1)
	return nil
}

// Stats returns a point-in-time snapshot of this Logger's counters.
func (l *Logger) Stats() Stats {
	return Stats{
		LinesWritten: atomic.LoadUint64(&l.stats.LinesWritten),
		BytesWritten: atomic.LoadUint64(&l.stats.BytesWritten),
		FlushCount:   atomic.LoadUint64(&l.stats.FlushCount),
	}
}

// Close stops the flush loop, flushes any remainder, and closes the file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.ticker.Stop()
	close(l.done)
	if err := l.Flush(); err != nil {
		return err
	}
	return l.file.Close()
}
