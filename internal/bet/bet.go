// Package bet implements the bet controller of spec.md §4.6: split a total
// evaluation budget across B independently-seeded optimizer runs over the
// same baseline, keep the one with the best final ratio, and let it run out
// the remaining budget alone.
package bet

import (
	"math"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/optimize"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// Optimizer is the subset of internal/optimize.RLS/SA the bet controller
// drives: run to the currently-configured evaluation budget, and allow that
// budget to be changed for a subsequent call without losing Model/Rng state
// (both optimizers hold their Model and Rng as fields, so calling Run again
// after SetEvals simply continues the same search).
type Optimizer interface {
	Run() (optimize.Result, error)
	SetEvals(n int)
}

// Config holds the knobs spec.md §4.6 names. A BetRatio of 1 with Bets of 1
// is the `single` shortcut: the sole child consumes the entire budget and
// the "continue the winner" phase runs zero further evaluations.
type Config struct {
	TotalEvals int
	Bets       int
	BetRatio   float64
}

// Controller runs Config.Bets independent optimizers over clones of
// Baseline, each seeded from a derived child Rng, then continues the winner
// (by best-achieved ratio) for the remaining budget.
type Controller struct {
	Baseline *ir.Model
	Rng      *rng.Rng
	// NewOptimizer builds one child optimizer bound to its own Model clone
	// and derived Rng; the bet controller never mutates Baseline itself.
	NewOptimizer func(model *ir.Model, childRng *rng.Rng) Optimizer
	Config       Config
}

type childRun struct {
	opt Optimizer
	res optimize.Result
}

// Run executes the full bet protocol and returns the winning child's final
// result after its continuation phase.
func (c *Controller) Run() (optimize.Result, error) {
	bets := c.Config.Bets
	if bets < 1 {
		bets = 1
	}

	childEvals := int(math.Floor(float64(c.Config.TotalEvals) * c.Config.BetRatio / float64(bets)))

	var best *childRun
	for i := 0; i < bets; i++ {
		childRng := c.Rng.Derive(i)

		data, err := c.Baseline.Export()
		if err != nil {
			return optimize.Result{}, err
		}
		model, err := ir.Import(data)
		if err != nil {
			return optimize.Result{}, err
		}

		opt := c.NewOptimizer(model, childRng)
		opt.SetEvals(childEvals)

		res, err := opt.Run()
		if err != nil {
			return optimize.Result{}, err
		}

		if best == nil || res.BestByRatio.Ratio > best.res.BestByRatio.Ratio {
			best = &childRun{opt: opt, res: res}
		}
	}
	if best == nil {
		return optimize.Result{}, kerr.New(kerr.BadState, "bet: no child optimizer produced a result")
	}

	remaining := int(math.Floor(float64(c.Config.TotalEvals) * (1 - c.Config.BetRatio)))
	if remaining <= 0 {
		return best.res, nil
	}

	best.opt.SetEvals(remaining)
	finalRes, err := best.opt.Run()
	if err != nil {
		return optimize.Result{}, err
	}

	// The continuation's own best-ever views already account for everything
	// seen during the bet phase only if the optimizer carries BestRecord
	// forward; RLS/SA start a fresh Result per Run call, so merge here.
	merged := finalRes
	merged.Evaluations += best.res.Evaluations
	merged.ConvergenceLog = append(best.res.ConvergenceLog, finalRes.ConvergenceLog...)
	merged.MutationLog = append(best.res.MutationLog, finalRes.MutationLog...)
	if best.res.BestByRatio.Ratio > merged.BestByRatio.Ratio {
		merged.BestByRatio = best.res.BestByRatio
	}
	if best.res.BestByCycle.CycleCount > 0 && (merged.BestByCycle.CycleCount == 0 || best.res.BestByCycle.CycleCount < merged.BestByCycle.CycleCount) {
		merged.BestByCycle = best.res.BestByCycle
	}

	return merged, nil
}
