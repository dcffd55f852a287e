// Package bridge supplies the baseline Model a Run starts from (spec.md
// §1's "curve/method JSON bridges that seed the IR"). Real bridges — the
// fiat-crypto code generator, a hand-authored C reference, bitcoin-core's
// field-arithmetic sources — are external collaborators; this package owns
// only the contract and a set of reference implementations good enough to
// exercise the rest of the engine without any of those toolchains present.
package bridge

import (
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// Kind names a bridge implementation, matching the enum in spec.md §6's
// `bridge` option verbatim.
type Kind string

const (
	Fiat        Kind = "fiat"
	Manual      Kind = "manual"
	BitcoinCore Kind = "bitcoin-core"
	Jasmin      Kind = "jasmin"
)

// ParseKind accepts exactly the four enum values spec.md §6 names. jasmin is
// accepted here — not rejected as a parameterParseFail — because the spec
// lists it as a legal enum value; whether it can actually build a Model is
// a question Build answers, not ParseKind (see Open Question decision 1).
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Fiat, Manual, BitcoinCore, Jasmin:
		return Kind(s), true
	default:
		return "", false
	}
}

// Request carries the subset of CLI options a bridge needs to produce a
// baseline (internal/config assembles this from parsed flags).
type Request struct {
	Curve    string
	Method   string
	JSONFile string
	CFile    string
}

// Bridge builds a baseline Model for one Request. Build must not mutate the
// Request or retain it.
type Bridge interface {
	Build(req Request) (*ir.Model, error)
}

// Lookup returns the Bridge implementation for kind. jasmin resolves to a
// value whose Build always fails with BadConfig (Open Question decision 1)
// rather than failing to resolve at all, so `--bridge jasmin` only ever
// fails at orchestration time, never at flag-parse time.
func Lookup(kind Kind) (Bridge, error) {
	switch kind {
	case Fiat:
		return FiatBridge{}, nil
	case Manual:
		return ManualBridge{}, nil
	case BitcoinCore:
		return BitcoinCoreBridge{}, nil
	case Jasmin:
		return jasminBridge{}, nil
	default:
		return nil, kerr.New(kerr.BadConfig, "bridge: unknown bridge kind %q", kind)
	}
}

type jasminBridge struct{}

func (jasminBridge) Build(req Request) (*ir.Model, error) {
	return nil, kerr.New(kerr.BadConfig, "bridge: jasmin is accepted as a bridge option but has no implementation yet")
}
