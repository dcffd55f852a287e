package optimize

import (
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// NeighbourStrategy picks which of N neighbours (0-indexed here; neighbour
// i corresponds to candidate slot i+1) to compare against the current slot,
// given their measured energies.
type NeighbourStrategy func(energies []float64, r *rng.Rng) (int, error)

// SelectUniform implements spec.md §4.5's "uniform": uniform over [1, N].
func SelectUniform(energies []float64, r *rng.Rng) (int, error) {
	if len(energies) == 0 {
		return 0, kerr.New(kerr.BadState, "optimize: SelectUniform called with no neighbours")
	}
	return r.UniformIndex(len(energies)), nil
}

// SelectGreedy implements "greedy": argmin over neighbour energies.
func SelectGreedy(energies []float64, _ *rng.Rng) (int, error) {
	if len(energies) == 0 {
		return 0, kerr.New(kerr.BadState, "optimize: SelectGreedy called with no neighbours")
	}
	best := 0
	for i, e := range energies {
		if e < energies[best] {
			best = i
		}
	}
	return best, nil
}

// SelectWeighted implements "weighted": p_i = (1/(N−1))·(1 − e_i/Σe),
// sampled via pickWeighted. Requires N >= 2 (the weights are undefined for
// N == 1, since 1/(N-1) blows up).
func SelectWeighted(energies []float64, r *rng.Rng) (int, error) {
	n := len(energies)
	if n < 2 {
		return 0, kerr.New(kerr.BadConfig, "optimize: SelectWeighted requires at least 2 neighbours, got %d", n)
	}

	var sum float64
	for _, e := range energies {
		sum += e
	}
	if sum == 0 {
		return r.UniformIndex(n), nil
	}

	weights := make([]float64, n)
	for i, e := range energies {
		w := (1.0 / float64(n-1)) * (1 - e/sum)
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}
	return r.PickWeighted(weights), nil
}

// neighbourStrategies maps the CLI's strategy name to its implementation.
var neighbourStrategies = map[string]NeighbourStrategy{
	"uniform":  SelectUniform,
	"greedy":   SelectGreedy,
	"weighted": SelectWeighted,
}

// LookupNeighbourStrategy returns the named strategy, or nil, ok=false if
// name is not one of uniform/greedy/weighted.
func LookupNeighbourStrategy(name string) (NeighbourStrategy, bool) {
	s, ok := neighbourStrategies[name]
	return s, ok
}

// selectNeighbour applies the degenerate N==1 rule (always pick neighbour
// 1) before falling back to the configured strategy.
func selectNeighbour(strategy NeighbourStrategy, energies []float64, r *rng.Rng) (int, error) {
	if len(energies) == 1 {
		return 0, nil
	}
	return strategy(energies, r)
}
