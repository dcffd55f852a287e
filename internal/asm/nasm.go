package asm

import (
	"fmt"
	"strings"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/lir"
)

// NasmAssembler renders a lir.Function to NASM text using one stack slot per
// virtual register, exactly the naive-but-correct scheme of the teacher's
// EmitX64: no attempt is made here to keep values in registers across
// instructions, since which values actually live in registers across the
// kernel is the Decision the optimizer is searching over, not something a
// one-shot renderer should second-guess.
type NasmAssembler struct {
	// Symbol is the exported NASM label (GLOBAL) each rendered function
	// uses, conventionally the curve/method name the baseline implements.
	Symbol string
}

func (a NasmAssembler) Render(m *ir.Model, lastMutationKind string) (Candidate, error) {
	fn, err := lir.Lower(m, a.Symbol)
	if err != nil {
		return Candidate{}, err
	}

	slots := collectSlots(fn)
	frameSize := len(slots) * 8
	if rem := frameSize % 16; rem != 0 {
		frameSize += 16 - rem
	}

	var b strings.Builder
	b.WriteString("SECTION .text\n")
	fmt.Fprintf(&b, "GLOBAL %s\n", a.Symbol)
	fmt.Fprintf(&b, "%s:\n", a.Symbol)
	b.WriteString("  push rbp\n")
	b.WriteString("  mov rbp, rsp\n")
	if frameSize > 0 {
		fmt.Fprintf(&b, "  sub rsp, %d\n", frameSize)
	}

	insnCount := 2 // push + mov above
	if frameSize > 0 {
		insnCount++
	}

	for _, insn := range fn.Insns {
		n, err := emitInsn(&b, slots, insn)
		if err != nil {
			return Candidate{}, err
		}
		insnCount += n
	}

	if frameSize > 0 {
		fmt.Fprintf(&b, "  add rsp, %d\n", frameSize)
		insnCount++
	}
	b.WriteString("  pop rbp\n")
	b.WriteString("  ret\n")
	insnCount += 2

	return Candidate{
		Assembly:         b.String(),
		StackLength:      frameSize,
		LastMutationKind: lastMutationKind,
		InstructionCount: insnCount,
	}, nil
}

// collectSlots assigns each distinct virtual register name (any operand
// that is not a spill/reload slot name or a load/store memory address) a
// stack offset from rbp, in first-seen order.
func collectSlots(f *lir.Function) map[string]int {
	slots := map[string]int{}
	next := 8
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := slots[name]; ok {
			return
		}
		slots[name] = next
		next += 8
	}

	for _, insn := range f.Insns {
		switch v := insn.(type) {
		case lir.Mov:
			add(v.Dst)
			add(v.Src)
		case lir.Add:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Sub:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Mul:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.MulHi:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Adc:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Sbb:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Mulx:
			add(v.DstHi)
			add(v.DstLo)
			add(v.LHS)
			add(v.RHS)
		case lir.Adcx:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Adox:
			add(v.Dst)
			add(v.LHS)
			add(v.RHS)
		case lir.Load:
			add(v.Dst)
		case lir.Store:
			add(v.Val)
		case lir.Reload:
			add(v.Dst)
		case lir.Spill:
			add(v.Src)
		}
	}
	return slots
}

func loadValue(b *strings.Builder, slots map[string]int, name, reg string) {
	if off, ok := slots[name]; ok {
		fmt.Fprintf(b, "  mov %s, qword [rbp-%d]\n", reg, off)
		return
	}
	fmt.Fprintf(b, "  mov %s, %s\n", reg, name)
}

func storeValue(b *strings.Builder, slots map[string]int, name, reg string) {
	if off, ok := slots[name]; ok {
		fmt.Fprintf(b, "  mov qword [rbp-%d], %s\n", off, reg)
	}
}

// emitInsn writes one lir.Insn as NASM text and returns how many NASM
// instruction lines it expanded to, for the Candidate's InstructionCount.
func emitInsn(b *strings.Builder, slots map[string]int, insn lir.Insn) (int, error) {
	switch v := insn.(type) {
	case lir.Mov:
		loadValue(b, slots, v.Src, "rax")
		storeValue(b, slots, v.Dst, "rax")
		return 2, nil
	case lir.Add:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  add rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Sub:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  sub rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Mul:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  imul rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.MulHi:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  mul r10\n") // rdx:rax = rax * r10
		storeValue(b, slots, v.Dst, "rdx")
		return 4, nil
	case lir.Adc:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  adc rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Sbb:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  sbb rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Mulx:
		loadValue(b, slots, v.RHS, "rdx")
		loadValue(b, slots, v.LHS, "r10")
		b.WriteString("  mulx rax, r11, r10\n")
		storeValue(b, slots, v.DstHi, "rax")
		storeValue(b, slots, v.DstLo, "r11")
		return 5, nil
	case lir.Adcx:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  adcx rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Adox:
		loadValue(b, slots, v.LHS, "rax")
		loadValue(b, slots, v.RHS, "r10")
		b.WriteString("  adox rax, r10\n")
		storeValue(b, slots, v.Dst, "rax")
		return 4, nil
	case lir.Load:
		if isImmediateInt(v.Addr) {
			fmt.Fprintf(b, "  mov rax, %s\n", v.Addr)
		} else {
			fmt.Fprintf(b, "  mov rax, qword [%s]\n", v.Addr)
		}
		storeValue(b, slots, v.Dst, "rax")
		return 2, nil
	case lir.Store:
		loadValue(b, slots, v.Val, "rax")
		fmt.Fprintf(b, "  mov qword [%s], rax\n", v.Addr)
		return 2, nil
	case lir.Spill:
		loadValue(b, slots, v.Src, "rax")
		fmt.Fprintf(b, "  mov qword [%s], rax\n", v.Slot)
		return 2, nil
	case lir.Reload:
		fmt.Fprintf(b, "  mov rax, qword [%s]\n", v.Slot)
		storeValue(b, slots, v.Dst, "rax")
		return 2, nil
	default:
		return 0, kerr.New(kerr.BadState, "asm: no NASM rendering for instruction %q", insn.Op())
	}
}

func isImmediateInt(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
