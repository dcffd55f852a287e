// Package asm defines the Assembler contract (spec: "renders current Model
// state to assembly text + stack-frame length") and the Candidate slot type
// that holds a rendered candidate pending measurement.
//
// The real NASM-lowering toolchain this contract fronts is treated as an
// external collaborator — the same way the teacher's codegen package kept
// its x64 emitter decoupled from regalloc and from the caller that drives
// it. NasmAssembler below is this repository's own in-process
// implementation of the contract (grounded on the teacher's
// internal/codegen/x64emit.go), good enough to render and measure real
// candidates without depending on a separately-installed toolchain.
package asm

import (
	"github.com/cryptopt-go/cryptopt/internal/ir"
)

// Candidate is the fixed-index record held in an optimizer's candidate
// slots: slot 0 is always the current accepted state, slots 1..N hold
// sampled neighbours pending measurement.
type Candidate struct {
	Assembly         string
	StackLength      int
	LastMutationKind string
	InstructionCount int
}

// Assembler renders the current state of a Model into a Candidate. Render
// must be side-effect-free on m: it only reads the model's current node
// order and decision values.
type Assembler interface {
	Render(m *ir.Model, lastMutationKind string) (Candidate, error)
}
