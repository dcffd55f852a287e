package analyse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/asm"
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/measure"
)

func TestAnalyseReducesConstantSamples(t *testing.T) {
	a := &Analyser{Measurer: &measure.FakeMeasurer{ConstantMedian: 500}}
	candidates := []asm.Candidate{
		{Assembly: "a", InstructionCount: 10},
		{Assembly: "b", InstructionCount: 10},
	}

	res, err := a.Analyse(candidates, 20, 16, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.RawMedian) != 3 {
		t.Fatalf("expected 3 columns (2 candidates + check), got %d", len(res.RawMedian))
	}
	for i, v := range res.RawMedian {
		if v != 500 {
			t.Errorf("column %d: RawMedian = %v, want 500", i, v)
		}
	}
	for i, v := range res.BatchSizeScaledRawMedian {
		if v != 500*20 {
			t.Errorf("column %d: BatchSizeScaledRawMedian = %v, want %v", i, v, 500*20)
		}
	}
	if res.CheckMedian() != 500 {
		t.Errorf("CheckMedian = %v, want 500", res.CheckMedian())
	}
}

func TestAnalysePersistsArtefactsOnFailure(t *testing.T) {
	dir := t.TempDir()
	a := &Analyser{
		Measurer: &measure.FakeMeasurer{IncorrectOnCall: 1},
		Dir:      dir,
	}
	nodes := []*ir.Node{ir.NewNode("n0", ir.OpLoad, nil)}
	m, err := ir.NewModel(nodes, []string{"n0"})
	if err != nil {
		t.Fatal(err)
	}

	candidates := []asm.Candidate{
		{Assembly: "candidate A text", InstructionCount: 5},
		{Assembly: "candidate B text", InstructionCount: 5},
	}

	_, err = a.Analyse(candidates, 1, 1, m)
	if err == nil {
		t.Fatal("expected error from forced MeasureIncorrect")
	}
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.MeasureIncorrect {
		t.Fatalf("expected MeasureIncorrect, got %v (ok=%v)", kind, ok)
	}

	for _, name := range []string{"tested_incorrect_A.asm", "tested_incorrect_B.asm", "tested_incorrect.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected artefact %q to exist: %v", path, err)
		}
	}
}

func TestAnalysePersistsGenericErrorArtefactsWithoutJSON(t *testing.T) {
	dir := t.TempDir()
	a := &Analyser{
		Measurer: &measure.FakeMeasurer{GenericOnCall: 1},
		Dir:      dir,
	}
	nodes := []*ir.Node{ir.NewNode("n0", ir.OpLoad, nil)}
	m, err := ir.NewModel(nodes, []string{"n0"})
	if err != nil {
		t.Fatal(err)
	}

	candidates := []asm.Candidate{
		{Assembly: "candidate A text", InstructionCount: 5},
		{Assembly: "candidate B text", InstructionCount: 5},
	}

	_, err = a.Analyse(candidates, 1, 1, m)
	if err == nil {
		t.Fatal("expected error from forced MeasureGeneric")
	}
	if kind, ok := kerr.KindOf(err); !ok || kind != kerr.MeasureGeneric {
		t.Fatalf("expected MeasureGeneric, got %v (ok=%v)", kind, ok)
	}

	for _, name := range []string{"generic_error_A.asm", "generic_error_B.asm"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected artefact %q to exist: %v", path, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "tested_incorrect.json")); !os.IsNotExist(err) {
		t.Errorf("expected no JSON dump for a MeasureGeneric failure, stat err = %v", err)
	}
	for _, name := range []string{"tested_incorrect_A.asm", "tested_incorrect_B.asm"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected no tested_incorrect artefact %q for a MeasureGeneric failure", name)
		}
	}
}

func TestChunkWidthIsFixedRegardlessOfSampleCount(t *testing.T) {
	samples := make([]int64, 3)
	for i := range samples {
		samples[i] = int64(i)
	}
	c := chunk(samples)
	if len(c) != ChunkWidth {
		t.Fatalf("chunk length = %d, want %d", len(c), ChunkWidth)
	}

	samples2 := make([]int64, 1000)
	for i := range samples2 {
		samples2[i] = int64(i)
	}
	c2 := chunk(samples2)
	if len(c2) != ChunkWidth {
		t.Fatalf("chunk length = %d, want %d", len(c2), ChunkWidth)
	}
}
