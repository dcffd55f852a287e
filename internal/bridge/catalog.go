package bridge

// Curve/method catalogs for the fiat and bitcoin-core bridges, used by CLI
// validation (spec.md §6: "for fiat, method ∈ FIAT_METHODS and curve ∈
// FIAT_CURVES; for bitcoin-core, method ∈ BITCOIN_CORE_METHODS").
//
// limbCounts records the word count a schoolbook lowering of that curve's
// field uses; it only shapes the synthetic baseline graph's size, not any
// semantic property the optimizer relies on.
var fiatLimbCounts = map[string]int{
	"curve25519": 5,
	"p256":       4,
	"secp256k1":  4,
}

// FiatMethods lists the primitives a fiat bridge baseline can be built for.
var FiatMethods = []string{"mul", "square"}

// FiatCurves lists the curves the fiat bridge accepts.
var FiatCurves = []string{"curve25519", "p256", "secp256k1"}

// BitcoinCoreMethods lists the primitives the bitcoin-core bridge accepts;
// bitcoin-core's field arithmetic is secp256k1-only, so it has no curve
// dimension (spec.md §6: "curve ... ignored under manual/bitcoin-core
// bridges").
var BitcoinCoreMethods = []string{"mul", "square", "normalize"}

func isIn(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}
