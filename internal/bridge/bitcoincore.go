package bridge

import (
	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// bitcoinCoreLimbCount is secp256k1's limb count under bitcoin-core's own
// field representation; bitcoin-core has no curve option (spec.md §6).
const bitcoinCoreLimbCount = 4

// BitcoinCoreBridge builds a baseline Model shaped like bitcoin-core's
// hand-written secp256k1 field-arithmetic sources. Like FiatBridge, the
// real C sources are an external collaborator; this bridge substitutes a
// synthetic schoolbook lowering of the same shape.
type BitcoinCoreBridge struct{}

func (BitcoinCoreBridge) Build(req Request) (*ir.Model, error) {
	if !isIn(BitcoinCoreMethods, req.Method) {
		return nil, kerr.New(kerr.BadConfig, "bridge: bitcoin-core: method %q is not in BITCOIN_CORE_METHODS", req.Method)
	}

	method := req.Method
	if method == "normalize" {
		// normalize is single-operand like square; reuse that shape.
		method = "square"
	}

	return synthesizeBaseline(bitcoinCoreLimbCount, method)
}
