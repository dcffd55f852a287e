package main

import (
	"errors"
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

func TestExitCodeOfMapsKnownKind(t *testing.T) {
	err := kerr.New(kerr.MeasureIncorrect, "mismatch")
	if got, want := exitCodeOf(err), kerr.MeasureIncorrect.ExitCode(); got != want {
		t.Errorf("exitCodeOf = %d, want %d", got, want)
	}
}

func TestExitCodeOfDefaultsOnUnknownError(t *testing.T) {
	if got, want := exitCodeOf(errors.New("opaque")), 125; got != want {
		t.Errorf("exitCodeOf = %d, want %d", got, want)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	code := run([]string{"-evals", "not-a-number"})
	if code != kerr.BadConfig.ExitCode() {
		t.Errorf("run = %d, want %d", code, kerr.BadConfig.ExitCode())
	}
}

func TestRunSucceedsWithResultDirOverride(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"-curve", "curve25519",
		"-method", "square",
		"-evals", "4",
		"-bets", "1",
		"-betRatio", "1",
		"-proof=false",
		"-resultDir", dir,
	})
	if code != 0 {
		t.Errorf("run = %d, want 0", code)
	}
}
