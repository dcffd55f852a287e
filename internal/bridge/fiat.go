package bridge

import (
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// FiatBridge builds a baseline Model shaped like a fiat-crypto-generated
// witness for a given curve/method pair. The real fiat-crypto pipeline is
// an external collaborator (spec.md §1); this bridge fills its role with a
// synthetic schoolbook lowering sized by the curve's limb count.
type FiatBridge struct{}

func (FiatBridge) Build(req Request) (*ir.Model, error) {
	if !isIn(FiatCurves, req.Curve) {
		return nil, kerr.New(kerr.BadConfig, "bridge: fiat: curve %q is not in FIAT_CURVES", req.Curve)
	}
	if !isIn(FiatMethods, req.Method) {
		return nil, kerr.New(kerr.BadConfig, "bridge: fiat: method %q is not in FIAT_METHODS", req.Method)
	}

	limbs, ok := fiatLimbCounts[req.Curve]
	if !ok {
		return nil, kerr.New(kerr.BadConfig, "bridge: fiat: no limb count recorded for curve %q", req.Curve)
	}

	return synthesizeBaseline(limbs, req.Method)
}
