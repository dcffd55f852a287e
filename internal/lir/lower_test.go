package lir

import (
	"testing"

	"github.com/cryptopt-go/cryptopt/internal/ir"
)

func TestLowerProducesOneInsnPerNodePlusSpills(t *testing.T) {
	nodes := []*ir.Node{
		ir.NewNode("a", ir.OpLoad, nil),
		ir.NewNode("b", ir.OpLoad, nil),
		ir.NewNode("c", ir.OpMulx, []string{"a", "b"}),
		ir.NewNode("d", ir.OpAdc, []string{"c"}),
		ir.NewNode("e", ir.OpStore, []string{"d"}),
	}
	m, err := ir.NewModel(nodes, []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatal(err)
	}

	fn, err := Lower(m, "testkernel")
	if err != nil {
		t.Fatal(err)
	}
	if fn.Name != "testkernel" {
		t.Fatalf("Name = %q, want testkernel", fn.Name)
	}
	if len(fn.Insns) < len(nodes) {
		t.Fatalf("got %d insns for %d nodes, want at least one each", len(fn.Insns), len(nodes))
	}

	var sawMulx bool
	for _, insn := range fn.Insns {
		if insn.Op() == "mulx" {
			sawMulx = true
		}
	}
	if !sawMulx {
		t.Fatal("expected a mulx instruction for the OpMulx node")
	}
}

func TestLowerEmitsSpillWhenSlotChosen(t *testing.T) {
	a := ir.NewNode("a", ir.OpLoad, nil)
	b := ir.NewNode("b", ir.OpMov, []string{"a"})
	d, ok := b.Decisions["spill-target"]
	if !ok {
		t.Fatal("expected spill-target decision on node b")
	}
	d.Value = 1 // "slot0"

	m, err := ir.NewModel([]*ir.Node{a, b}, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	fn, err := Lower(m, "k")
	if err != nil {
		t.Fatal(err)
	}

	var sawSpill bool
	for _, insn := range fn.Insns {
		if sp, ok := insn.(Spill); ok {
			sawSpill = true
			if sp.Slot != "slot0" {
				t.Fatalf("spill slot = %q, want slot0", sp.Slot)
			}
		}
	}
	if !sawSpill {
		t.Fatal("expected a Spill instruction when spill-target decision is non-none")
	}
}

func TestLowerRejectsInvalidOp(t *testing.T) {
	n := &ir.Node{ID: "x", Op: ir.OpInvalid, Decisions: map[string]*ir.Decision{}}
	m, err := ir.NewModel([]*ir.Node{n}, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Lower(m, "k"); err == nil {
		t.Fatal("expected error lowering OpInvalid")
	}
}
