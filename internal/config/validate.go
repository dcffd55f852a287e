package config

import (
	"os"

	"github.com/cryptopt-go/cryptopt/internal/bridge"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// validate implements spec.md §6's Validation paragraph: "evals > 0; if
// bridge=manual then jsonFile and cFile required and readable; for fiat,
// method ∈ FIAT_METHODS and curve ∈ FIAT_CURVES; for bitcoin-core, method ∈
// BITCOIN_CORE_METHODS. Otherwise exit parameterParseFail."
func validate(o *Options) error {
	if o.Evals <= 0 {
		return kerr.New(kerr.BadConfig, "config: evals must be > 0")
	}

	switch o.Bridge {
	case bridge.Manual:
		if o.JSONFile == "" || o.CFile == "" {
			return kerr.New(kerr.BadConfig, "config: bridge=manual requires jsonFile and cFile")
		}
		if _, err := os.Stat(o.JSONFile); err != nil {
			return kerr.Wrap(kerr.BadConfig, err, "config: jsonFile %q is not readable", o.JSONFile)
		}
		if _, err := os.Stat(o.CFile); err != nil {
			return kerr.Wrap(kerr.BadConfig, err, "config: cFile %q is not readable", o.CFile)
		}
	case bridge.Fiat:
		if !containsStr(bridge.FiatMethods, o.Method) {
			return kerr.New(kerr.BadConfig, "config: method %q is not in FIAT_METHODS", o.Method)
		}
		if !containsStr(bridge.FiatCurves, o.Curve) {
			return kerr.New(kerr.BadConfig, "config: curve %q is not in FIAT_CURVES", o.Curve)
		}
	case bridge.BitcoinCore:
		if !containsStr(bridge.BitcoinCoreMethods, o.Method) {
			return kerr.New(kerr.BadConfig, "config: method %q is not in BITCOIN_CORE_METHODS", o.Method)
		}
	case bridge.Jasmin:
		// Accepted here per Open Question decision 1; jasmin fails later,
		// at orchestration time, not at parse/validate time.
	default:
		return kerr.New(kerr.BadConfig, "config: unknown bridge %q", o.Bridge)
	}

	if !containsStr(optimizerChoices, o.Optimizer) {
		return kerr.New(kerr.BadConfig, "config: unknown optimizer %q", o.Optimizer)
	}
	if !containsStr(framePointerChoices, o.FramePointer) {
		return kerr.New(kerr.BadConfig, "config: unknown framePointer %q", o.FramePointer)
	}
	if !containsStr(memoryConstraintsChoices, o.MemoryConstraints) {
		return kerr.New(kerr.BadConfig, "config: unknown memoryConstraints %q", o.MemoryConstraints)
	}
	if o.BetRatio < 0 || o.BetRatio > 1 {
		return kerr.New(kerr.BadConfig, "config: betRatio must be in [0,1], got %v", o.BetRatio)
	}
	if o.Bets < 1 {
		return kerr.New(kerr.BadConfig, "config: bets must be >= 1, got %d", o.Bets)
	}
	if _, err := o.CoolingSchedule(); err != nil {
		return err
	}
	if _, err := o.NeighbourStrategy(); err != nil {
		return err
	}
	if o.SANumNeighbors < 1 {
		return kerr.New(kerr.BadConfig, "config: saNumNeighbors must be >= 1, got %d", o.SANumNeighbors)
	}

	return nil
}

func containsStr(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}
