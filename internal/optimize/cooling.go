package optimize

import "math"

// CoolingSchedule computes the SA temperature at a given epoch. All three
// variants from spec.md §4.5 take a visit parameter q and initial
// temperature t0; exp and log additionally need nothing else, lin needs the
// total evaluation budget to normalize epoch into [0,1].
type CoolingSchedule func(epoch int, t0, q float64, nEvals int) float64

// CoolingExp implements T0 · (2^(q−1) − 1) / ((t + 2)^(q−1) − 1).
func CoolingExp(epoch int, t0, q float64, _ int) float64 {
	num := math.Pow(2, q-1) - 1
	den := math.Pow(float64(epoch+2), q-1) - 1
	if den == 0 {
		return t0
	}
	return t0 * num / den
}

// CoolingLin implements T0 · (1 − clamp(t/nEvals, 0, 1)) · q.
func CoolingLin(epoch int, t0, q float64, nEvals int) float64 {
	frac := 0.0
	if nEvals > 0 {
		frac = float64(epoch) / float64(nEvals)
	}
	frac = clamp01(frac)
	return t0 * (1 - frac) * q
}

// CoolingLog implements T0 / ln((2.62 − q) · (t + 1)), clipped to >= 0.
func CoolingLog(epoch int, t0, q float64, _ int) float64 {
	arg := (2.62 - q) * float64(epoch+1)
	if arg <= 0 {
		return 0
	}
	v := t0 / math.Log(arg)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// coolingSchedules maps the CLI's schedule name to its implementation.
var coolingSchedules = map[string]CoolingSchedule{
	"exp": CoolingExp,
	"lin": CoolingLin,
	"log": CoolingLog,
}

// LookupCoolingSchedule returns the named schedule, or nil, ok=false if
// name is not one of exp/lin/log.
func LookupCoolingSchedule(name string) (CoolingSchedule, bool) {
	s, ok := coolingSchedules[name]
	return s, ok
}
