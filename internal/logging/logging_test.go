package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenEmptyPathIsNoopLogger(t *testing.T) {
	l, err := Open("", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	l.Printf("hello %d", 1)
	if err := l.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	if err := os.WriteFile(path, []byte("stale content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Fatal("Open did not truncate the existing file")
	}
}

func TestPrintfThenFlushWritesTimestampedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := Open(path, "run comment", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Printf("epoch %d accepted", 3)
	if err := l.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines (comment header + entry), got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[1], "epoch 3 accepted") {
		t.Fatalf("missing log content: %q", lines[1])
	}
}

func TestCloseFlushesRemainder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := Open(path, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	l.Printf("final line")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "final line") {
		t.Fatal("Close did not flush the buffered line")
	}
}

func TestStatsTrackLinesAndFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := Open(path, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Printf("a")
	l.Printf("b")
	if err := l.Flush(); err != nil {
		t.Fatal(err)
	}

	st := l.Stats()
	if st.LinesWritten != 2 {
		t.Fatalf("LinesWritten = %d, want 2", st.LinesWritten)
	}
	if st.FlushCount != 1 {
		t.Fatalf("FlushCount = %d, want 1", st.FlushCount)
	}
}
