package lir

import (
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// Lower walks an ir.Model in its current topological order and produces the
// straight-line Function a Candidate's assembly text is rendered from
// (internal/asm). Of the values chosen by the optimizer, Lower reads the
// scheduling order and each node's spill-target decision: a chosen slot
// adds a Spill after the node's instruction. Register-class and carry-usage
// decisions are not read here and do not change the lowered instructions.
func Lower(m *ir.Model, fnName string) (*Function, error) {
	fn := &Function{Name: fnName}

	for _, n := range m.NodesInOrder() {
		insn, err := lowerNode(n)
		if err != nil {
			return nil, err
		}
		fn.Insns = append(fn.Insns, insn)

		if spill := spillSlot(n); spill != "" {
			fn.Insns = append(fn.Insns, Spill{Slot: spill, Src: n.ID})
		}
	}

	return fn, nil
}

// operand returns the i'th dependency's virtual register name, or the empty
// string if the node has no such dependency (a malformed node, since every
// op below requires the dependency count it reads).
func operand(n *ir.Node, i int) string {
	if i >= len(n.Deps) {
		return ""
	}
	return n.Deps[i]
}

func lowerNode(n *ir.Node) (Insn, error) {
	lhs, rhs := operand(n, 0), operand(n, 1)

	switch n.Op {
	case ir.OpLoad:
		return Load{Dst: n.ID, Addr: "arg." + n.ID}, nil
	case ir.OpStore:
		return Store{Addr: "ret." + n.ID, Val: lhs}, nil
	case ir.OpMov:
		return Mov{Dst: n.ID, Src: lhs}, nil
	case ir.OpAdd:
		return Add{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpSub:
		return Sub{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpMul:
		return Mul{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpMulHi:
		return MulHi{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpAdc:
		return Adc{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpSbb:
		return Sbb{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpMulx:
		return Mulx{DstHi: n.ID + ".hi", DstLo: n.ID + ".lo", LHS: lhs, RHS: rhs}, nil
	case ir.OpAdcx:
		return Adcx{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpAdox:
		return Adox{Dst: n.ID, LHS: lhs, RHS: rhs}, nil
	case ir.OpSpill:
		return Spill{Slot: spillSlot(n), Src: lhs}, nil
	case ir.OpReload:
		return Reload{Dst: n.ID, Slot: spillSlot(n)}, nil
	default:
		return nil, kerr.New(kerr.BadState, "lir: node %q has unlowerable op %q", n.ID, n.Op)
	}
}

// spillSlot returns the node's currently-selected spill-target decision
// value, or "" if that decision is absent or set to "none".
func spillSlot(n *ir.Node) string {
	d, ok := n.Decisions["spill-target"]
	if !ok {
		return ""
	}
	slot := d.Choices[d.Value]
	if slot == "none" {
		return ""
	}
	return slot
}

// RegisterClassOf returns the node's currently-selected register-class
// decision value ("gpr" or "xmm"), or "" if that decision is absent.
// The NASM renderer in internal/asm does not call it; every value is
// rendered through general-purpose registers.
func RegisterClassOf(n *ir.Node) string {
	d, ok := n.Decisions["register-class"]
	if !ok {
		return ""
	}
	return d.Choices[d.Value]
}
