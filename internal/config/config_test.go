package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

func fixedNow() uint64 { return 1234 }

func TestParseAppliesDefaults(t *testing.T) {
	o, err := Parse(nil, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if o.Curve != "curve25519" || o.Method != "square" || string(o.Bridge) != "fiat" {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.Evals != 10000 {
		t.Fatalf("Evals = %d, want 10000 (default \"10k\")", o.Evals)
	}
	if o.Seed != 1234 {
		t.Fatalf("Seed = %d, want 1234 from nowMillis fallback", o.Seed)
	}
}

func TestParseSingleShortcutOverridesBetsAndRatio(t *testing.T) {
	o, err := Parse([]string{"-single"}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if o.Bets != 1 || o.BetRatio != 1 {
		t.Fatalf("single shortcut did not force bets=1/betRatio=1: %+v", o)
	}
}

func TestParseExplicitSeedWins(t *testing.T) {
	o, err := Parse([]string{"-seed=42"}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if o.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", o.Seed)
	}
}

func TestParseRejectsUnknownFiatMethod(t *testing.T) {
	_, err := Parse([]string{"-method=invert"}, fixedNow)
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestParseRejectsUnknownFiatCurve(t *testing.T) {
	_, err := Parse([]string{"-curve=bn254"}, fixedNow)
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestParseRejectsZeroEvals(t *testing.T) {
	_, err := Parse([]string{"-evals=0"}, fixedNow)
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestParseManualBridgeRequiresReadableFiles(t *testing.T) {
	_, err := Parse([]string{"-bridge=manual"}, fixedNow)
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestParseManualBridgeAcceptsReadableFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "w.json")
	cPath := filepath.Join(dir, "ref.c")
	if err := os.WriteFile(jsonPath, []byte(`{"order":[],"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cPath, []byte("// ref\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := Parse([]string{"-bridge=manual", "-jsonFile=" + jsonPath, "-cFile=" + cPath}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if o.JSONFile != jsonPath || o.CFile != cPath {
		t.Fatalf("unexpected paths: %+v", o)
	}
}

func TestParseAcceptsJasminBridge(t *testing.T) {
	o, err := Parse([]string{"-bridge=jasmin"}, fixedNow)
	if err != nil {
		t.Fatalf("jasmin must be accepted at parse time (Open Question decision 1), got %v", err)
	}
	if string(o.Bridge) != "jasmin" {
		t.Fatalf("Bridge = %q, want jasmin", o.Bridge)
	}
}

func TestParseEvalsSuffixes(t *testing.T) {
	cases := map[string]int64{
		"10k":  10000,
		"0.4M": 400000,
		"4e9":  4000000000,
		"1e3":  1000,
	}
	for in, want := range cases {
		got, err := parseEvals(in)
		if err != nil {
			t.Fatalf("parseEvals(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseEvals(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseEvalsRejectsGarbage(t *testing.T) {
	if _, err := parseEvals("garbage"); err == nil {
		t.Fatal("expected an error for a non-numeric evals string")
	}
}

func TestParseRejectsUnknownCoolingSchedule(t *testing.T) {
	_, err := Parse([]string{"-saCoolingSchedule=quadratic"}, fixedNow)
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.BadConfig {
		t.Fatalf("expected BadConfig, got %v", err)
	}
}

func TestParseRenderParseRoundTrips(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "w.json")
	cPath := filepath.Join(dir, "ref.c")
	if err := os.WriteFile(jsonPath, []byte(`{"order":[],"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cPath, []byte("// ref\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	original, err := Parse([]string{
		"-curve=secp256k1",
		"-method=mul",
		"-bridge=manual",
		"-jsonFile=" + jsonPath,
		"-cFile=" + cPath,
		"-optimizer=sa",
		"-seed=777",
		"-evals=12345",
		"-bets=3",
		"-betRatio=0.4",
		"-cyclegoal=2500",
		"-xmm=true",
		"-redzone=false",
		"-framePointer=save",
		"-memoryConstraints=all",
		"-proof=false",
		"-resultDir=" + filepath.Join(dir, "out"),
		"-logFile=" + filepath.Join(dir, "log.txt"),
		"-logComment=round-trip test",
		"-verbose=true",
		"-saInitialTemperature=500",
		"-saVisitParam=1.5",
		"-saAcceptParam=0.2",
		"-saNeighborStrategy=weighted",
		"-saNumNeighbors=4",
		"-saStepSizeParam=0.01",
		"-saMaxMutStepSize=9",
		"-saCoolingSchedule=lin",
	}, fixedNow)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rendered := Render(original)

	reparsed, err := Parse(rendered, fixedNow)
	if err != nil {
		t.Fatalf("Parse(Render(original)): %v\nargv: %v", err, rendered)
	}

	if *original != *reparsed {
		t.Fatalf("round-trip mismatch:\noriginal: %+v\nreparsed: %+v", original, reparsed)
	}
}

func TestRenderEmitsEveryDeclaredFlag(t *testing.T) {
	o, err := Parse(nil, fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	flagNames := []string{
		"curve", "method", "bridge", "jsonFile", "cFile", "optimizer", "seed",
		"evals", "bets", "betRatio", "single", "cyclegoal", "xmm", "preferXmm",
		"redzone", "framePointer", "memoryConstraints", "proof", "resultDir",
		"readState", "startFromBestJson", "logFile", "logComment", "verbose",
		"saInitialTemperature", "saVisitParam", "saAcceptParam",
		"saNeighborStrategy", "saNumNeighbors", "saStepSizeParam",
		"saMaxMutStepSize", "saCoolingSchedule",
	}

	rendered := Render(o)
	for _, name := range flagNames {
		found := false
		for _, a := range rendered {
			if a == "-"+name || strings.HasPrefix(a, "-"+name+"=") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Render did not emit flag %q", name)
		}
	}
}
