package orchestrate

import (
	"github.com/cryptopt-go/cryptopt/internal/analyse"
	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/bet"
	"github.com/cryptopt-go/cryptopt/internal/config"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/measure"
	"github.com/cryptopt-go/cryptopt/internal/optimize"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// buildOptimizerFactory returns the bet.Controller.NewOptimizer closure,
// choosing between RLS and SA per o.Optimizer (spec.md §6's `optimizer`
// option) and wiring each child's own Measurer/Analyser/Rng.
func buildOptimizerFactory(o *config.Options, assembler asm.Assembler, cacheDir string, newMeasurer func(*rng.Rng) measure.Measurer) (func(*ir.Model, *rng.Rng) bet.Optimizer, error) {
	switch o.Optimizer {
	case "rls":
		return func(m *ir.Model, childRng *rng.Rng) bet.Optimizer {
			return &optimize.RLS{
				Model:     m,
				Assembler: assembler,
				Analyser:  &analyse.Analyser{Measurer: newMeasurer(childRng.Derive(0)), Dir: cacheDir},
				Rng:       childRng,
				Config: optimize.RLSConfig{
					CycleGoal:     o.CycleGoal,
					InitBatchSize: 10,
					NumBatches:    4,
					Evals:         int(o.Evals),
				},
			}
		}, nil
	case "sa":
		cooling, err := o.CoolingSchedule()
		if err != nil {
			return nil, err
		}
		neighbour, err := o.NeighbourStrategy()
		if err != nil {
			return nil, err
		}
		return func(m *ir.Model, childRng *rng.Rng) bet.Optimizer {
			return &optimize.SA{
				Model:     m,
				Assembler: assembler,
				Analyser:  &analyse.Analyser{Measurer: newMeasurer(childRng.Derive(0)), Dir: cacheDir},
				Rng:       childRng,
				Config: optimize.SAConfig{
					CycleGoal:      o.CycleGoal,
					InitBatchSize:  10,
					NumBatches:     4,
					Evals:          int(o.Evals),
					NeighbourCount: o.SANumNeighbors,
					Temperature0:   o.SAInitialTemperature,
					StepSizeParam:  o.SAStepSizeParam,
					MaxMutStepSize: o.SAMaxMutStepSize,
					AcceptParam:    o.SAAcceptParam,
					VisitParam:     o.SAVisitParam,
					Cooling:        cooling,
					Neighbour:      neighbour,
				},
			}
		}, nil
	default:
		return nil, kerr.New(kerr.BadConfig, "orchestrate: unknown optimizer %q", o.Optimizer)
	}
}
