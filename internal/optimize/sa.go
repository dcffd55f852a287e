package optimize

import (
	"fmt"
	"math"

	"github.com/cryptopt-go/cryptopt/internal/analyse"
	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// SAConfig holds the knobs spec.md §4.5 names.
type SAConfig struct {
	CycleGoal      int
	InitBatchSize  int
	NumBatches     int
	Evals          int
	PrintEvery     int
	StatusCallback func(epoch int, r Result)

	NeighbourCount int // N
	Temperature0   float64
	StepSizeParam  float64
	MaxMutStepSize int // <= 0 means unbounded ([1, ∞))
	AcceptParam    float64
	VisitParam     float64

	Cooling   CoolingSchedule
	Neighbour NeighbourStrategy
}

const snapshotCurrent = "sa-current"

// SA is the Simulated Annealing optimizer: each epoch mutates the current
// state by a Cauchy-distributed step count into N independent neighbour
// slots, picks one via the configured neighbour-selection strategy, and
// accepts it outright if better or probabilistically if worse, per the
// configured cooling schedule.
type SA struct {
	Model     *ir.Model
	Assembler asm.Assembler
	Analyser  *analyse.Analyser
	Rng       *rng.Rng
	Config    SAConfig
}

func energy(x float64) float64 { return x }

// SetEvals overrides the evaluation budget for the next Run call (internal/bet).
func (o *SA) SetEvals(n int) { o.Config.Evals = n }

// Run executes Config.Evals epochs and returns the final accepted candidate
// plus both best-ever views.
func (o *SA) Run() (Result, error) {
	n := o.Config.NeighbourCount
	if n < 1 {
		return Result{}, kerr.New(kerr.BadConfig, "optimize: SA requires NeighbourCount >= 1, got %d", n)
	}

	batchSize := o.Config.InitBatchSize
	var res Result

	current, err := o.Assembler.Render(o.Model, "none")
	if err != nil {
		return Result{}, err
	}
	res.FinalAssembly = current

	for epoch := 0; epoch < o.Config.Evals; epoch++ {
		o.Model.SaveSnapshot(snapshotCurrent)

		neighbours := make([]asm.Candidate, n)
		neighbourKind := make([]string, n)
		neighbourPermDetails := make([]string, n)
		neighbourDecDetails := make([]string, n)
		for i := 1; i <= n; i++ {
			t := o.temperature(epoch)
			k, err := o.stepCount(t)
			if err != nil {
				return res, err
			}
			for s := 0; s < k; s++ {
				kind, permDetails, decDetails := o.mutateOnce()
				neighbourKind[i-1], neighbourPermDetails[i-1], neighbourDecDetails[i-1] = kind, permDetails, decDetails
				o.Model.AcceptPendingMutation()
			}

			snapID := fmt.Sprintf("sa-neighbour-%d", i)
			o.Model.SaveSnapshot(snapID)

			cand, err := o.Assembler.Render(o.Model, "permutation-or-decision")
			if err != nil {
				return res, err
			}
			neighbours[i-1] = cand

			if err := o.Model.RestoreSnapshot(snapshotCurrent); err != nil {
				return res, err
			}
		}

		candidates := append([]asm.Candidate{current}, neighbours...)
		measured, err := o.Analyser.Analyse(candidates, batchSize, o.Config.NumBatches, o.Model)
		if err != nil {
			return res, err
		}
		res.Evaluations++

		medianCurrent := measured.RawMedian[0]
		medianCheck := measured.CheckMedian()
		batchSize = clampBatchSize(o.Config.CycleGoal, batchSize, medianCheck)

		energies := make([]float64, n)
		for i := 0; i < n; i++ {
			energies[i] = energy(measured.RawMedian[i+1])
		}

		j, err := selectNeighbour(o.Config.Neighbour, energies, o.Rng)
		if err != nil {
			return res, err
		}
		medianJ := measured.RawMedian[j+1]

		t := o.temperature(epoch)
		accepted := o.accept(energy(medianJ), energy(medianCurrent), t)

		if accepted {
			current = neighbours[j]
			snapID := fmt.Sprintf("sa-neighbour-%d", j+1)
			if err := o.Model.RestoreSnapshot(snapID); err != nil {
				return res, err
			}
		} else if err := o.Model.RestoreSnapshot(snapshotCurrent); err != nil {
			return res, err
		}

		r := ratio(medianCheck, medianCurrent, medianJ)
		res.ConvergenceLog = append(res.ConvergenceLog, r)
		res.MutationLog = append(res.MutationLog, LogEntry{
			Evaluation:         epoch,
			Choice:             neighbourKind[j],
			Kept:               accepted,
			PermutationDetails: neighbourPermDetails[j],
			DecisionDetails:    neighbourDecDetails[j],
		})
		winningMedian := medianCurrent
		if accepted {
			winningMedian = medianJ
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

func (o *SA) temperature(epoch int) float64 {
	cooling := o.Config.Cooling
	if cooling == nil {
		cooling = CoolingExp
	}
	return cooling(epoch, o.Config.Temperature0, o.Config.VisitParam, o.Config.Evals)
}

// stepCount draws k = round(Cauchy(loc=1, scale=temperature/stepSizeParam)),
// clamped to [1, maxMutStepSize] (or [1, ∞) if maxMutStepSize <= 0).
func (o *SA) stepCount(temperature float64) (int, error) {
	scale := temperature
	if o.Config.StepSizeParam != 0 {
		scale /= o.Config.StepSizeParam
	}
	if scale <= 0 {
		scale = 1
	}

	v, err := o.Rng.Cauchy(1, scale)
	if err != nil {
		return 0, err
	}

	k := int(math.Round(v))
	if k < 1 {
		k = 1
	}
	if o.Config.MaxMutStepSize > 0 && k > o.Config.MaxMutStepSize {
		k = o.Config.MaxMutStepSize
	}
	return k, nil
}

// accept implements spec.md §4.5 step 5.
func (o *SA) accept(energyJ, energyCurrent, t float64) bool {
	if energyJ < energyCurrent {
		return true
	}
	if o.Config.AcceptParam <= 0 {
		return false
	}
	if t <= 0 {
		return false
	}
	p := math.Exp(-o.Config.AcceptParam * (energyJ - energyCurrent) / t)
	if p > 1 {
		p = 1
	}
	return o.Rng.UniformReal() < p
}

// mutateOnce applies exactly one Model mutation, falling back to
// permutation if no hot decision exists — the same rule RLS uses.
func (o *SA) mutateOnce() (kind, permDetails, decDetails string) {
	if o.Rng.UniformReal() < 0.5 {
		if d, ok := o.Model.MutateDecision(o.Rng); ok {
			return "decision", "", formatDecision(d)
		}
	}
	p := o.Model.MutatePermutation(o.Rng)
	return "permutation", formatPermutation(p), ""
}
