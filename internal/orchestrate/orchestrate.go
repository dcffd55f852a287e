// Package orchestrate implements the Run orchestrator of spec.md §4.7: the
// nine-step sequence that turns a parsed config.Options into an optimized
// assembly listing on disk.
package orchestrate

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cryptopt-go/cryptopt/internal/affinity"
	"github.com/cryptopt-go/cryptopt/internal/analyse"
	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/bet"
	"github.com/cryptopt-go/cryptopt/internal/bridge"
	"github.com/cryptopt-go/cryptopt/internal/config"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/logging"
	"github.com/cryptopt-go/cryptopt/internal/measure"
	"github.com/cryptopt-go/cryptopt/internal/optimize"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// Outcome is what a completed Run produced, for the CLI entrypoint to
// report and exit on.
type Outcome struct {
	ResultAssemblyPath string
	MutationLogPath    string
	Result             optimize.Result
}

// Run carries everything Execute needs beyond config.Options: the
// dependencies an orchestrator shouldn't construct for itself so tests can
// substitute fakes (spec.md §2's Assembler/Measurer are "external
// collaborators").
type Run struct {
	Options   *config.Options
	Log       *logging.Logger
	Assembler asm.Assembler
	// NewMeasurer builds a fresh Measurer for each bet child optimizer. Defaults to a
	// deterministic in-process FakeMeasurer when nil, since the native
	// cycle-counting harness is an external collaborator this repo does
	// not itself ship (spec.md §1).
	NewMeasurer func(r *rng.Rng) measure.Measurer
	// RunProver, if non-nil, invokes the external equivalence prover
	// (spec.md §4.7 step h). Defaults to exec.Command when nil.
	RunProver func(assemblyPath string) error
}

// Execute runs the full nine-step orchestration sequence and returns the
// paths it wrote plus the underlying optimize.Result.
func (r *Run) Execute() (Outcome, error) {
	o := r.Options

	// (a) Initialize Rng from seed.
	master := rng.New(o.Seed)

	// (b) create temp cache dir <tmpdir>/CryptOpt.cache/<hash>.
	cacheDir := filepath.Join(os.TempDir(), "CryptOpt.cache", master.Identifier())
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Outcome{}, kerr.Wrap(kerr.BadState, err, "orchestrate: failed to create cache dir %q", cacheDir)
	}
	// measurers collects every Measurer instance created for this run
	// (one per bet child), so step (i) can destroy each of them at
	// shutdown regardless of which return path is taken.
	var measurers []measure.Measurer
	cleanupCache := func() {
		for _, m := range measurers {
			_ = m.Destroy()
		}
		if !o.Verbose {
			_ = os.RemoveAll(cacheDir)
		}
	}

	// Pin the OS thread running the measurement loop to a single CPU to
	// cut scheduler-induced cycle-count noise. Best-effort: a platform or
	// permission failure here should not abort a run that would otherwise
	// succeed, just leave it exposed to the noise affinity pinning avoids.
	if err := affinity.Pin(0); err != nil && r.Log != nil {
		r.Log.Printf("affinity: continuing without CPU pinning: %v", err)
	}

	// (c) obtain baseline assembly (from JSON state, best prior run, or bridge).
	model, err := r.baseline()
	if err != nil {
		cleanupCache()
		return Outcome{}, err
	}

	assembler := r.Assembler
	if assembler == nil {
		symbol := fmt.Sprintf("%s_%s", o.Method, o.Curve)
		assembler = asm.NasmAssembler{Symbol: symbol}
	}

	// (d) sanity-check the baseline assembly contains no "undefined" markers.
	baseline, err := assembler.Render(model, "none")
	if err != nil {
		cleanupCache()
		return Outcome{}, err
	}
	if strings.Contains(baseline.Assembly, "undefined") {
		cleanupCache()
		return Outcome{}, kerr.New(kerr.AssembleUndefined, "orchestrate: baseline assembly for %s/%s contains an undefined marker", o.Curve, o.Method)
	}

	newMeasurer := r.NewMeasurer
	if newMeasurer == nil {
		newMeasurer = func(childRng *rng.Rng) measure.Measurer { return &measure.FakeMeasurer{Rng: childRng} }
	}
	trackedMeasurer := func(childRng *rng.Rng) measure.Measurer {
		m := newMeasurer(childRng)
		measurers = append(measurers, m)
		return m
	}

	newOptimizer, err := buildOptimizerFactory(o, assembler, cacheDir, trackedMeasurer)
	if err != nil {
		cleanupCache()
		return Outcome{}, err
	}

	// (e) run the Bet controller.
	controller := &bet.Controller{
		Baseline:     model,
		Rng:          master,
		NewOptimizer: newOptimizer,
		Config: bet.Config{
			TotalEvals: int(o.Evals),
			Bets:       o.Bets,
			BetRatio:   o.BetRatio,
		},
	}
	result, err := controller.Run()
	if err != nil {
		cleanupCache()
		return Outcome{}, err
	}

	if err := os.MkdirAll(o.ResultDir, 0o755); err != nil {
		cleanupCache()
		return Outcome{}, kerr.Wrap(kerr.BadState, err, "orchestrate: failed to create resultDir %q", o.ResultDir)
	}

	sym := fmt.Sprintf("%s_%s", o.Method, o.Curve)
	if na, ok := assembler.(asm.NasmAssembler); ok {
		sym = na.Symbol
	}

	// (f) write the result assembly prefixed with the NASM header and
	// suffixed with statistics comments.
	resultPath := filepath.Join(o.ResultDir, fmt.Sprintf("%s_ratio%.4f.asm", sym, result.BestByRatio.Ratio))
	if err := writeResultAssembly(resultPath, sym, result); err != nil {
		cleanupCache()
		return Outcome{}, err
	}

	// (h) optionally invoke the external prover.
	if o.Proof {
		runProver := r.RunProver
		if runProver == nil {
			runProver = defaultRunProver
		}
		start := time.Now()
		if err := runProver(resultPath); err != nil {
			cleanupCache()
			return Outcome{}, kerr.Wrap(kerr.ProofUnsuccessful, err, "orchestrate: external prover failed for %s", resultPath)
		}
		if err := appendValidatedLine(resultPath, time.Since(start)); err != nil {
			cleanupCache()
			return Outcome{}, err
		}
	}

	// (g) write the mutation-log CSV.
	logPath := filepath.Join(o.ResultDir, sym+".csv")
	if err := writeMutationLog(logPath, result.MutationLog); err != nil {
		cleanupCache()
		return Outcome{}, err
	}

	// Persist the winning Model state so a later run with
	// startFromBestJson can resume from exactly where this one left off.
	if result.Model != nil {
		if err := writeBestState(o.ResultDir, result.Model); err != nil {
			cleanupCache()
			return Outcome{}, err
		}
	}

	// (i) destroy the Measurer and clean the cache dir unless verbose.
	cleanupCache()

	return Outcome{ResultAssemblyPath: resultPath, MutationLogPath: logPath, Result: result}, nil
}

func defaultRunProver(assemblyPath string) error {
	cmd := exec.Command("cryptopt-prove", assemblyPath)
	fmt.Println(strings.Join(cmd.Args, " "))
	return cmd.Run()
}

// baseline implements spec.md §4.7 step (c)'s three sources in priority
// order: readState, startFromBestJson, then the configured bridge.
func (r *Run) baseline() (*ir.Model, error) {
	o := r.Options

	if o.ReadState != "" {
		data, err := os.ReadFile(o.ReadState)
		if err != nil {
			return nil, kerr.Wrap(kerr.BadConfig, err, "orchestrate: failed to read readState %q", o.ReadState)
		}
		return importState(data)
	}

	if o.StartFromBestJSON {
		path, err := bestPriorStatePath(o.ResultDir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, kerr.Wrap(kerr.BadConfig, err, "orchestrate: failed to read best prior state %q", path)
			}
			return importState(data)
		}
	}

	br, err := bridge.Lookup(o.Bridge)
	if err != nil {
		return nil, err
	}
	return br.Build(bridge.Request{Curve: o.Curve, Method: o.Method, JSONFile: o.JSONFile, CFile: o.CFile})
}

func importState(data []byte) (*ir.Model, error) {
	return ir.Import(data)
}

// bestPriorStatePath looks for the conventional <resultDir>/best_state.json
// this orchestrator itself writes alongside every result assembly; returns
// "" (not an error) if none exists yet, so a first-ever run with
// startFromBestJson set simply falls through to the bridge. The document's
// schemaVersion is checked by ir.Import itself once the caller reads and
// parses it, not here.
func bestPriorStatePath(resultDir string) (string, error) {
	path := filepath.Join(resultDir, "best_state.json")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", kerr.Wrap(kerr.BadConfig, err, "orchestrate: failed to stat %q", path)
	}
	return path, nil
}
