// Package measure defines the Measurer contract (spec: "executes a set of
// candidate assemblies in interleaved batches, returning raw cycle-count
// samples") and the error classification a caller uses to turn a measurement
// failure into one of the three measurement-specific kerr.Kind values.
//
// The actual native cycle-counting harness — assembling the candidate text,
// JIT-loading or compiling it, and executing it many times under RDTSC or
// equivalent — is explicitly out of scope (an external collaborator); this
// package only defines what the core expects back from it and ships a
// deterministic in-process FakeMeasurer good enough to drive the optimizer
// loop and its tests without a real assembler toolchain installed.
package measure

import (
	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// Result holds the raw samples for one Measure call: Samples[k] is the
// sequence of numBatches per-batch sums of batchSize execution counts for
// candidate k. By convention the last candidate is a re-measurement of
// candidate 0, the noise-check baseline (spec.md "Check (median)").
type Result struct {
	Samples   [][]int64
	BatchSize int
}

// Measurer executes a batch of candidates on the host CPU (or a stand-in)
// and reports raw cycle counts. Implementations own native resources and
// must be explicitly released via Destroy.
type Measurer interface {
	// Measure runs each of candidates numBatches times in batches of
	// batchSize back-to-back executions, interleaved across candidates to
	// average out transient host noise. It appends one extra trailing
	// re-measurement of candidates[0] as the noise-check column.
	//
	// Returns a kerr error with Kind MeasureIncorrect if two candidates
	// disagree on output (miscompilation), MeasureInvalid if any candidate
	// failed to assemble, or MeasureGeneric for any other measurement
	// failure.
	Measure(candidates []asm.Candidate, batchSize, numBatches int) (Result, error)

	// Destroy releases any native resources (loaded libraries, mmap'd
	// executable pages, subprocess handles). Safe to call once per Measurer
	// lifetime, at orchestrator shutdown (spec.md §5).
	Destroy() error
}

// ClassifyFailure is a convenience for Measurer implementations that detect
// a problem but have not yet wrapped it in a kerr.Kind: it defaults to
// MeasureGeneric unless the caller already classified incorrect/invalid.
func ClassifyFailure(err error, incorrect, invalid bool) error {
	switch {
	case incorrect:
		return kerr.Wrap(kerr.MeasureIncorrect, err, "measure: candidates disagree on output")
	case invalid:
		return kerr.Wrap(kerr.MeasureInvalid, err, "measure: candidate failed to assemble")
	default:
		return kerr.Wrap(kerr.MeasureGeneric, err, "measure: measurement failed")
	}
}
