package optimize

import (
	"github.com/cryptopt-go/cryptopt/internal/analyse"
	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// RLSConfig holds the knobs spec.md §4.4 names.
type RLSConfig struct {
	CycleGoal      int
	InitBatchSize  int
	NumBatches     int
	Evals          int
	PrintEvery     int
	StatusCallback func(epoch int, r Result)
}

// RLS is the Random Local Search optimizer: a two-slot (current, candidate)
// mutate-measure-accept loop that accepts on tie, letting the search drift
// across equi-cost plateaus instead of getting stuck.
type RLS struct {
	Model     *ir.Model
	Assembler asm.Assembler
	Analyser  *analyse.Analyser
	Rng       *rng.Rng
	Config    RLSConfig
}

// SetEvals overrides the evaluation budget for the next Run call, letting a
// bet controller continue a winning optimizer for a further budget without
// reconstructing it (internal/bet).
func (o *RLS) SetEvals(n int) { o.Config.Evals = n }

// Run executes Config.Evals iterations and returns the final accepted
// candidate plus both best-ever views.
func (o *RLS) Run() (Result, error) {
	current, err := o.Assembler.Render(o.Model, "none")
	if err != nil {
		return Result{}, err
	}

	batchSize := o.Config.InitBatchSize
	var res Result
	res.FinalAssembly = current

	for epoch := 0; epoch < o.Config.Evals; epoch++ {
		mutKind := "none"
		var permDetails, decDetails string
		if epoch > 0 {
			mutKind, permDetails, decDetails = o.mutateOnce()
		}

		candidate, err := o.Assembler.Render(o.Model, mutKind)
		if err != nil {
			return res, err
		}

		measured, err := o.Analyser.Analyse([]asm.Candidate{current, candidate}, batchSize, o.Config.NumBatches, o.Model)
		if err != nil {
			return res, err
		}
		res.Evaluations++

		medianCurrent, medianCandidate, medianCheck := measured.RawMedian[0], measured.RawMedian[1], measured.CheckMedian()
		batchSize = clampBatchSize(o.Config.CycleGoal, batchSize, medianCheck)

		accepted := medianCandidate <= medianCurrent
		if accepted {
			current = candidate
			if epoch > 0 {
				o.Model.AcceptPendingMutation()
			}
		} else if epoch > 0 {
			if err := o.Model.RevertLastMutation(); err != nil {
				return res, err
			}
		}

		r := ratio(medianCheck, medianCurrent, medianCandidate)
		res.ConvergenceLog = append(res.ConvergenceLog, r)
		res.MutationLog = append(res.MutationLog, LogEntry{
			Evaluation:         epoch,
			Choice:             mutKind,
			Kept:               accepted,
			PermutationDetails: permDetails,
			DecisionDetails:    decDetails,
		})
		winningMedian := medianCurrent
		if accepted {
			winningMedian = medianCandidate
		}
		updateBest(&res.BestByRatio, &res.BestByCycle, current, r, winningMedian, epoch)

		if o.Config.StatusCallback != nil && o.Config.PrintEvery > 0 && epoch%o.Config.PrintEvery == 0 {
			res.FinalAssembly = current
			o.Config.StatusCallback(epoch, res)
		}
	}

	res.FinalAssembly = current
	res.Model = o.Model
	return res, nil
}

// mutateOnce applies exactly one Model mutation and reports its kind plus
// rendered details for the mutation-log CSV: chosen uniformly between
// decision and permutation, falling back to permutation if no hot decision
// exists (spec.md §4.4 step 1).
func (o *RLS) mutateOnce() (kind, permDetails, decDetails string) {
	if o.Rng.UniformReal() < 0.5 {
		if d, ok := o.Model.MutateDecision(o.Rng); ok {
			return "decision", "", formatDecision(d)
		}
	}
	p := o.Model.MutatePermutation(o.Rng)
	return "permutation", formatPermutation(p), ""
}
