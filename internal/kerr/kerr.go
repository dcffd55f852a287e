// Package kerr defines the stable error taxonomy shared across the search
// engine and the CLI. Every fatal condition in the tool maps to exactly one
// Kind, and every Kind maps to exactly one process exit code.
package kerr

import (
	"errors"
	"fmt"
)

// Kind is a closed taxonomy of fatal error categories.
type Kind int

const (
	// BadConfig covers CLI validation failures and impossible parameter
	// combinations (e.g. a Cauchy scale <= 0).
	BadConfig Kind = iota
	// BadState covers programmer errors: revert with no pending mutation,
	// or a missing snapshot id.
	BadState
	// AssembleUndefined fires when a baseline or candidate assembly string
	// contains an "undefined" marker.
	AssembleUndefined
	// MeasureIncorrect fires when the measurer reports an output mismatch
	// between candidates, i.e. evidence of miscompilation.
	MeasureIncorrect
	// MeasureInvalid fires when a candidate fails to assemble in the
	// native harness.
	MeasureInvalid
	// MeasureGeneric covers any other measurement failure.
	MeasureGeneric
	// ProofUnsuccessful fires when the external equivalence prover exits
	// with a nonzero status.
	ProofUnsuccessful
)

func (k Kind) String() string {
	switch k {
	case BadConfig:
		return "bad-config"
	case BadState:
		return "bad-state"
	case AssembleUndefined:
		return "assemble-undefined"
	case MeasureIncorrect:
		return "measure-incorrect"
	case MeasureInvalid:
		return "measure-invalid"
	case MeasureGeneric:
		return "measure-generic"
	case ProofUnsuccessful:
		return "proof-unsuccessful"
	default:
		return "unknown"
	}
}

// ExitCode returns the stable process exit code for this Kind, per spec.md
// §6 ("Exit codes: 0 success; nonzero values distinguish parameterParseFail,
// measureIncorrect, measureInvalid, measureGeneric, proofUnsuccessful,
// badConfig").
func (k Kind) ExitCode() int {
	switch k {
	case BadConfig:
		return 1
	case BadState:
		return 2
	case AssembleUndefined:
		return 3
	case MeasureIncorrect:
		return 4
	case MeasureInvalid:
		return 5
	case MeasureGeneric:
		return 6
	case ProofUnsuccessful:
		return 7
	default:
		return 125
	}
}

// Error wraps an underlying cause with a stable Kind, so callers can both
// os.Exit(err.Kind.ExitCode()) and inspect the original cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf pulls a *kerr.Error's Kind out of an arbitrary error chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return BadState, false
}
