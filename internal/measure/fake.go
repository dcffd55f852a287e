package measure

import (
	"strings"

	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// FakeMeasurer is a deterministic in-process stand-in for the native cycle
// counter, used by internal/optimize's tests and by anything exercising the
// orchestrator without a real assembler/harness installed.
//
// Absent ConstantMedian, a candidate's synthetic cycle count is derived from
// its InstructionCount (more instructions cost more cycles) plus small
// Rng-driven per-batch noise, which is enough to let RLS/SA actually prefer
// shorter candidates in a test. Setting ConstantMedian makes every candidate
// measure identically, the "Measurer returns identical medians for A and B"
// fixture spec.md's testable properties call for.
type FakeMeasurer struct {
	Rng            *rng.Rng
	ConstantMedian int64

	// IncorrectOnCall, if nonzero, makes the IncorrectOnCall'th Measure call
	// (1-indexed) fail with MeasureIncorrect.
	IncorrectOnCall int
	// InvalidMarker, if set, makes any Measure call whose candidate
	// assembly text contains this substring fail with MeasureInvalid.
	InvalidMarker string
	// GenericOnCall, if nonzero, makes the GenericOnCall'th Measure call
	// (1-indexed) fail with MeasureGeneric, for exercising callers' handling
	// of a measurement failure that is neither a mismatch nor an
	// unassemblable candidate (e.g. a harness I/O error).
	GenericOnCall int

	calls     int
	destroyed bool
}

func (f *FakeMeasurer) Measure(candidates []asm.Candidate, batchSize, numBatches int) (Result, error) {
	f.calls++

	if f.IncorrectOnCall != 0 && f.calls == f.IncorrectOnCall {
		return Result{}, kerr.New(kerr.MeasureIncorrect, "fake measurer: forced mismatch on call %d", f.calls)
	}

	if f.GenericOnCall != 0 && f.calls == f.GenericOnCall {
		return Result{}, kerr.New(kerr.MeasureGeneric, "fake measurer: forced generic failure on call %d", f.calls)
	}

	if f.InvalidMarker != "" {
		for _, c := range candidates {
			if strings.Contains(c.Assembly, f.InvalidMarker) {
				return Result{}, kerr.New(kerr.MeasureInvalid, "fake measurer: candidate contains invalid marker %q", f.InvalidMarker)
			}
		}
	}

	// candidates plus the trailing check re-measurement of candidate 0.
	samples := make([][]int64, len(candidates)+1)
	for k := 0; k <= len(candidates); k++ {
		var base int64
		if f.ConstantMedian > 0 {
			base = f.ConstantMedian
		} else {
			src := candidates[0]
			if k < len(candidates) {
				src = candidates[k]
			}
			base = int64(src.InstructionCount) * 10
		}

		row := make([]int64, numBatches)
		for b := 0; b < numBatches; b++ {
			noise := int64(0)
			if f.Rng != nil {
				noise = int64(f.Rng.UniformIndex(5)) - 2
			}
			val := (base + noise) * int64(batchSize)
			if val < 0 {
				val = 0
			}
			row[b] = val
		}
		samples[k] = row
	}

	return Result{Samples: samples, BatchSize: batchSize}, nil
}

func (f *FakeMeasurer) Destroy() error {
	f.destroyed = true
	return nil
}

// Destroyed reports whether Destroy has been called, for orchestrator
// lifecycle tests.
func (f *FakeMeasurer) Destroyed() bool { return f.destroyed }
