// Package analyse reduces raw Measurer samples to the per-candidate robust
// statistics the optimizer and CLI status line consume, and persists
// failure artefacts when a measurement is rejected.
package analyse

import (
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/measure"
)

// ChunkWidth is the number of chunks a candidate's sample sequence is
// compressed to for the terminal status line.
const ChunkWidth = 8

// Result is the reduction of one Measure call's raw samples. Index K-1 (the
// last column) is always the re-measurement of candidate 0, the noise-check
// baseline; indices 0..K-2 correspond 1:1 to the input candidates.
type Result struct {
	RawMedian                []float64
	BatchSizeScaledRawMedian []float64
	Chunks                   [][ChunkWidth]float64
}

// CheckMedian returns the noise-check baseline's raw median, the last
// column by convention.
func (r Result) CheckMedian() float64 {
	if len(r.RawMedian) == 0 {
		return 0
	}
	return r.RawMedian[len(r.RawMedian)-1]
}

// Analyser measures a batch of candidates and reduces the result, persisting
// diagnostic artefacts to dir on any measurement failure before propagating
// the error (spec.md: "On any failure, the offending assemblies and a JSON
// dump of the current Model are persisted before propagating").
type Analyser struct {
	Measurer measure.Measurer
	Dir      string
}

// Analyse runs candidates through the Measurer and reduces the raw samples.
// model, if non-nil, is dumped alongside the candidate assemblies on
// failure so the offending state can be reproduced.
func (a *Analyser) Analyse(candidates []asm.Candidate, batchSize, numBatches int, model *ir.Model) (Result, error) {
	raw, err := a.Measurer.Measure(candidates, batchSize, numBatches)
	if err != nil {
		if perr := a.persistFailure(err, candidates, model); perr != nil {
			return Result{}, perr
		}
		return Result{}, err
	}

	return reduce(raw), nil
}

func reduce(raw measure.Result) Result {
	k := len(raw.Samples)
	res := Result{
		RawMedian:                make([]float64, k),
		BatchSizeScaledRawMedian: make([]float64, k),
		Chunks:                   make([][ChunkWidth]float64, k),
	}

	for i, row := range raw.Samples {
		scaled := medianOf(row)
		res.BatchSizeScaledRawMedian[i] = scaled
		if raw.BatchSize > 0 {
			res.RawMedian[i] = scaled / float64(raw.BatchSize)
		}
		res.Chunks[i] = chunk(row)
	}

	return res
}

// medianOf computes the p=0.5 empirical quantile of samples, the "robust
// median" spec.md calls for (resistant to the occasional scheduling-noise
// outlier that a mean is not).
func medianOf(samples []int64) float64 {
	if len(samples) == 0 {
		return 0
	}
	xs := make([]float64, len(samples))
	for i, v := range samples {
		xs[i] = float64(v)
	}
	sort.Float64s(xs)
	return stat.Quantile(0.5, stat.Empirical, xs, nil)
}

// chunk compresses samples into ChunkWidth buckets, each the median of its
// slice of the sequence, for a fixed-width terminal status line regardless
// of numBatches.
func chunk(samples []int64) [ChunkWidth]float64 {
	var out [ChunkWidth]float64
	if len(samples) == 0 {
		return out
	}

	n := len(samples)
	for c := 0; c < ChunkWidth; c++ {
		lo := c * n / ChunkWidth
		hi := (c + 1) * n / ChunkWidth
		if hi <= lo {
			hi = lo + 1
		}
		if hi > n {
			hi = n
		}
		out[c] = medianOf(samples[lo:hi])
	}
	return out
}

// persistFailure writes the offending candidate assemblies (and, for
// MeasureIncorrect/MeasureInvalid, a JSON dump of the Model) to a.Dir, per
// spec.md §6's artefact table: `tested_incorrect_A.asm`/`_B.asm`/`.json` for
// a mismatch or an unassemblable candidate, `generic_error_A.asm`/`_B.asm`
// (no JSON, per §7's "Persist A/B" policy row) for any other measurement
// failure.
func (a *Analyser) persistFailure(cause error, candidates []asm.Candidate, model *ir.Model) error {
	if a.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return kerr.Wrap(kerr.MeasureGeneric, err, "analyse: failed to create artefact dir %q", a.Dir)
	}

	prefix := "tested_incorrect"
	if kind, ok := kerr.KindOf(cause); ok && kind == kerr.MeasureGeneric {
		prefix = "generic_error"
	}

	names := []string{prefix + "_A.asm", prefix + "_B.asm"}
	for i, c := range candidates {
		if i >= len(names) {
			break
		}
		path := filepath.Join(a.Dir, names[i])
		if err := os.WriteFile(path, []byte(c.Assembly), 0o644); err != nil {
			return kerr.Wrap(kerr.MeasureGeneric, err, "analyse: failed to persist %q", path)
		}
	}

	if prefix == "tested_incorrect" && model != nil {
		data, err := model.Export()
		if err != nil {
			return kerr.Wrap(kerr.MeasureGeneric, err, "analyse: failed to export model for artefact")
		}
		path := filepath.Join(a.Dir, "tested_incorrect.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return kerr.Wrap(kerr.MeasureGeneric, err, "analyse: failed to persist %q", path)
		}
	}

	return nil
}
