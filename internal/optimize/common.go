// Package optimize implements the two mutate-measure-accept search loops
// described in spec.md §4.4/§4.5: Random Local Search (RLS) and Simulated
// Annealing (SA). Both share a candidate-slot/best-ever-record vocabulary
// and the batch-size self-tuning rule, factored into this file.
package optimize

import (
	"fmt"
	"math"

	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/ir"
)

// formatPermutation renders a PermutationResult for the mutation-log CSV's
// permutation-details column.
func formatPermutation(p ir.PermutationResult) string {
	return fmt.Sprintf("node=%s dir=%s walked=%d from=%d to=%d", p.NodeID, p.Direction, p.Walked, p.FromPos, p.ToPos)
}

// formatDecision renders a DecisionResult for the mutation-log CSV's
// decision-details column.
func formatDecision(d ir.DecisionResult) string {
	return fmt.Sprintf("node=%s decision=%s old=%s new=%s", d.NodeID, d.Decision, d.OldValue, d.NewValue)
}

// BestRecord is one of the two "best-ever" views the optimizer tracks: by
// speedup ratio, or by raw cycle count.
type BestRecord struct {
	Assembly   string
	Ratio      float64
	CycleCount float64
	Epoch      int
}

// Result is what Run returns: the final accepted candidate, both best-ever
// views, the total evaluation count consumed, a per-epoch ratio trace for
// the convergence plot, and the per-evaluation rows of the mutation-log CSV.
type Result struct {
	FinalAssembly  asm.Candidate
	BestByRatio    BestRecord
	BestByCycle    BestRecord
	Evaluations    int
	ConvergenceLog []float64
	MutationLog    []LogEntry
	// Model is the Model instance the run mutated in place, left in its
	// final accepted state (the orchestrator persists it for a later
	// startFromBestJson resume).
	Model *ir.Model
}

// LogEntry is one row of the mutation-log CSV spec.md §3 names:
// "evaluation,choice,kept,permutation-details,decision-details".
type LogEntry struct {
	Evaluation         int
	Choice             string // "none", "permutation", or "decision"
	Kept               bool
	PermutationDetails string
	DecisionDetails    string
}

// clampBatchSize implements spec.md §4.4 step 4: batchSize' =
// clamp(ceil(cyclegoal·batchSize/medianCheck), 5, 10000). medianCheck <= 0
// is treated as "no signal" and leaves batchSize unchanged, since dividing
// by a non-positive check median is meaningless.
func clampBatchSize(cycleGoal, batchSize int, medianCheck float64) int {
	if medianCheck <= 0 {
		return batchSize
	}
	scaled := math.Ceil(float64(cycleGoal) * float64(batchSize) / medianCheck)
	if scaled < 5 {
		scaled = 5
	}
	if scaled > 10000 {
		scaled = 10000
	}
	return int(scaled)
}

// ratio computes the glossary's dimensionless speedup indicator:
// medianCheck / min(medianCurrent, medianCandidate).
func ratio(medianCheck, medianCurrent, medianCandidate float64) float64 {
	m := medianCurrent
	if medianCandidate < m {
		m = medianCandidate
	}
	if m <= 0 {
		return 0
	}
	return medianCheck / m
}

// updateBest updates both best-ever views in place given one epoch's
// accepted candidate and its ratio/cycle-count.
func updateBest(byRatio, byCycle *BestRecord, candidate asm.Candidate, r, cycles float64, epoch int) {
	if r > byRatio.Ratio {
		*byRatio = BestRecord{Assembly: candidate.Assembly, Ratio: r, CycleCount: cycles, Epoch: epoch}
	}
	if byCycle.CycleCount == 0 || cycles < byCycle.CycleCount {
		*byCycle = BestRecord{Assembly: candidate.Assembly, Ratio: r, CycleCount: cycles, Epoch: epoch}
	}
}
