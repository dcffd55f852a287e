// Package lir defines a low-level IR close to the target ISA: the
// straight-line (no control flow — a field-arithmetic kernel never
// branches on secret-dependent data) instruction sequence that Lower
// produces from an ir.Model, and that internal/asm renders to NASM text.
//
// Adapted from the teacher's internal/lir package: the generic
// mov/add/sub/mul/div/call/cmp/br vocabulary of a general-purpose compiler
// backend is replaced by the field-arithmetic lowering set a fiat-crypto
// kernel actually needs (adc/sbb/mulx/adcx/adox plus spill/reload), and the
// basic-block graph is dropped since this domain has no branches at all.
package lir

import (
	"fmt"
	"strings"
)

// Module bundles functions for one object file.
type Module struct {
	Name      string
	Functions []*Function
}

// Function is a single straight-line instruction sequence — a field-
// arithmetic kernel body has no branches, so unlike a general-purpose
// lowering IR there is no basic-block graph to maintain.
type Function struct {
	Name  string
	Insns []Insn
}

// Insn is a target-agnostic instruction representation.
type Insn interface{ Op() string }

// Mov is a register-to-register (or register-to-memory-operand) move.
type Mov struct{ Dst, Src string }

func (Mov) Op() string       { return "mov" }
func (m Mov) String() string { return fmt.Sprintf("mov %s, %s", m.Dst, m.Src) }

// Add is a plain (flag-producing but carry-agnostic) addition.
type Add struct{ Dst, LHS, RHS string }

func (Add) Op() string       { return "add" }
func (a Add) String() string { return fmt.Sprintf("add %s, %s, %s", a.Dst, a.LHS, a.RHS) }

// Sub is a plain subtraction.
type Sub struct{ Dst, LHS, RHS string }

func (Sub) Op() string       { return "sub" }
func (s Sub) String() string { return fmt.Sprintf("sub %s, %s, %s", s.Dst, s.LHS, s.RHS) }

// Mul is a single-destination (low-half-only) multiply.
type Mul struct{ Dst, LHS, RHS string }

func (Mul) Op() string       { return "mul" }
func (m Mul) String() string { return fmt.Sprintf("mul %s, %s, %s", m.Dst, m.LHS, m.RHS) }

// MulHi is the high half of a widening multiply.
type MulHi struct{ Dst, LHS, RHS string }

func (MulHi) Op() string       { return "mulhi" }
func (m MulHi) String() string { return fmt.Sprintf("mulhi %s, %s, %s", m.Dst, m.LHS, m.RHS) }

// Adc is add-with-carry: Dst = LHS + RHS + CF, and sets CF.
type Adc struct{ Dst, LHS, RHS string }

func (Adc) Op() string       { return "adc" }
func (a Adc) String() string { return fmt.Sprintf("adc %s, %s, %s", a.Dst, a.LHS, a.RHS) }

// Sbb is subtract-with-borrow: Dst = LHS - RHS - CF, and sets CF.
type Sbb struct{ Dst, LHS, RHS string }

func (Sbb) Op() string       { return "sbb" }
func (s Sbb) String() string { return fmt.Sprintf("sbb %s, %s, %s", s.Dst, s.LHS, s.RHS) }

// Mulx is the BMI2 two-destination widening multiply: it reads no flags
// and writes none, which is exactly what makes it schedulable independently
// of any carry chain.
type Mulx struct{ DstHi, DstLo, LHS, RHS string }

func (Mulx) Op() string { return "mulx" }
func (m Mulx) String() string {
	return fmt.Sprintf("mulx %s, %s, %s, %s", m.DstHi, m.DstLo, m.LHS, m.RHS)
}

// Adcx is the ADX add-with-carry variant that reads and writes CF only
// (leaving OF untouched), letting two independent carry chains run on CF
// and OF in parallel.
type Adcx struct{ Dst, LHS, RHS string }

func (Adcx) Op() string       { return "adcx" }
func (a Adcx) String() string { return fmt.Sprintf("adcx %s, %s, %s", a.Dst, a.LHS, a.RHS) }

// Adox is the ADX add-with-carry variant that reads and writes OF only.
type Adox struct{ Dst, LHS, RHS string }

func (Adox) Op() string       { return "adox" }
func (a Adox) String() string { return fmt.Sprintf("adox %s, %s, %s", a.Dst, a.LHS, a.RHS) }

// Load reads a value from a memory operand (an argument limb or a
// previously stored intermediate).
type Load struct{ Dst, Addr string }

func (Load) Op() string       { return "load" }
func (l Load) String() string { return fmt.Sprintf("%s = load %s", l.Dst, l.Addr) }

// Store writes a value to a memory operand (a return-value limb).
type Store struct{ Addr, Val string }

func (Store) Op() string       { return "store" }
func (s Store) String() string { return fmt.Sprintf("store %s, %s", s.Addr, s.Val) }

// Spill writes a live value out to a stack slot, freeing its register.
type Spill struct{ Slot, Src string }

func (Spill) Op() string       { return "spill" }
func (s Spill) String() string { return fmt.Sprintf("spill %s, %s", s.Slot, s.Src) }

// Reload reads a previously spilled value back from its stack slot.
type Reload struct{ Dst, Slot string }

func (Reload) Op() string       { return "reload" }
func (r Reload) String() string { return fmt.Sprintf("%s = reload %s", r.Dst, r.Slot) }

func (m *Module) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "module %s\n", m.Name)

	for _, f := range m.Functions {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}

	return b.String()
}

func (f *Function) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "func %s() {\n", f.Name)

	for _, ins := range f.Insns {
		if s, ok := any(ins).(fmt.Stringer); ok {
			b.WriteString("  ")
			b.WriteString(s.String())
			b.WriteByte('\n')
		} else {
			fmt.Fprintf(&b, "  %s\n", ins.Op())
		}
	}

	b.WriteString("}\n")

	return b.String()
}
