package orchestrate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/optimize"
)

// writeBestState persists model's exported JSON at <resultDir>/best_state.json,
// the convention bestPriorStatePath reads back for startFromBestJson.
func writeBestState(resultDir string, model *ir.Model) error {
	data, err := model.Export()
	if err != nil {
		return err
	}
	path := filepath.Join(resultDir, "best_state.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to write best state %q", path)
	}
	return nil
}

// writeResultAssembly writes the persisted-output shape of spec.md §6:
// a NASM header ("SECTION .text / GLOBAL <symbol> / <symbol>:"), the final
// accepted candidate's assembly body, and a trailing statistics comment
// block.
func writeResultAssembly(path, symbol string, result optimize.Result) error {
	var out strings.Builder
	fmt.Fprintf(&out, "SECTION .text\nGLOBAL %s\n", symbol)
	out.WriteString(result.FinalAssembly.Assembly)
	out.WriteString("\n; --- statistics ---\n")
	fmt.Fprintf(&out, "; evaluations: %d\n", result.Evaluations)
	fmt.Fprintf(&out, "; best-by-ratio: %.6f (epoch %d)\n", result.BestByRatio.Ratio, result.BestByRatio.Epoch)
	fmt.Fprintf(&out, "; best-by-cycle: %.2f (epoch %d)\n", result.BestByCycle.CycleCount, result.BestByCycle.Epoch)

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to write result assembly %q", path)
	}
	return nil
}

// appendValidatedLine appends the "; validated in Ns" comment spec.md §6
// names for a proven result, once the external prover has succeeded.
func appendValidatedLine(path string, d time.Duration) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to append validated line to %q", path)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "; validated in %s\n", d); err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to append validated line to %q", path)
	}
	return nil
}

// writeMutationLog writes spec.md §3's mutation-log CSV:
// "evaluation,choice,kept,permutation-details,decision-details".
func writeMutationLog(path string, log []optimize.LogEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to create mutation log %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"evaluation", "choice", "kept", "permutation-details", "decision-details"}); err != nil {
		return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to write mutation log header")
	}
	for _, e := range log {
		row := []string{
			strconv.Itoa(e.Evaluation),
			e.Choice,
			strconv.FormatBool(e.Kept),
			e.PermutationDetails,
			e.DecisionDetails,
		}
		if err := w.Write(row); err != nil {
			return kerr.Wrap(kerr.BadState, err, "orchestrate: failed to write mutation log row")
		}
	}
	return nil
}
