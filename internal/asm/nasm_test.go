package asm

import (
	"strings"
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/ir"
)

func sampleModel(t *testing.T) *ir.Model {
	t.Helper()
	nodes := []*ir.Node{
		ir.NewNode("x0", ir.OpLoad, nil),
		ir.NewNode("x1", ir.OpLoad, nil),
		ir.NewNode("p", ir.OpMulx, []string{"x0", "x1"}),
		ir.NewNode("s", ir.OpAdc, []string{"p"}),
		ir.NewNode("out", ir.OpStore, []string{"s"}),
	}
	m, err := ir.NewModel(nodes, []string{"x0", "x1", "p", "s", "out"})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNasmAssemblerRendersLabelAndEpilogue(t *testing.T) {
	m := sampleModel(t)
	a := NasmAssembler{Symbol: "mul_p256"}

	cand, err := a.Render(m, "none")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(cand.Assembly, "GLOBAL mul_p256") {
		t.Error("missing GLOBAL directive")
	}
	if !strings.Contains(cand.Assembly, "mul_p256:") {
		t.Error("missing function label")
	}
	if !strings.HasSuffix(strings.TrimRight(cand.Assembly, "\n"), "ret") {
		t.Error("expected assembly to end with ret")
	}
	if cand.StackLength <= 0 {
		t.Error("expected nonzero stack frame for a multi-value kernel")
	}
	if cand.StackLength%16 != 0 {
		t.Errorf("stack frame %d is not 16-byte aligned", cand.StackLength)
	}
	if cand.InstructionCount <= 0 {
		t.Error("expected a positive instruction count")
	}
	if cand.LastMutationKind != "none" {
		t.Errorf("LastMutationKind = %q, want none", cand.LastMutationKind)
	}
}

func TestNasmAssemblerTwoRendersOfSameModelMatch(t *testing.T) {
	m := sampleModel(t)
	a := NasmAssembler{Symbol: "k"}

	c1, err := a.Render(m, "permutation")
	if err != nil {
		t.Fatal(err)
	}
	c2, err := a.Render(m, "permutation")
	if err != nil {
		t.Fatal(err)
	}
	if c1.Assembly != c2.Assembly {
		t.Error("Render must be side-effect-free and deterministic for an unchanged model")
	}
}
