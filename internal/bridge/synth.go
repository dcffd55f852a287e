package bridge

import (
	"fmt"

	"github.com/cryptopt-go/cryptopt/internal/ir"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// synthesizeBaseline builds a schoolbook-multiplication (or squaring) Model
// over limbs-many 64-bit words: load every operand limb, widen-multiply
// every limb pair via Mulx, chain the partial products with Adc, and store
// the resulting limbs. This stands in for what a real fiat-crypto/
// bitcoin-core witness export would hand the engine — a semantically-correct
// but unoptimized baseline for the optimizer to rearrange.
func synthesizeBaseline(limbs int, method string) (*ir.Model, error) {
	if limbs < 1 {
		return nil, kerr.New(kerr.BadConfig, "bridge: limb count must be >= 1, got %d", limbs)
	}

	var nodes []*ir.Node
	var order []string

	addNode := func(n *ir.Node) {
		nodes = append(nodes, n)
		order = append(order, n.ID)
	}

	loadID := func(operand string, i int) string { return fmt.Sprintf("%s%d", operand, i) }

	for i := 0; i < limbs; i++ {
		addNode(ir.NewNode(loadID("a", i), ir.OpLoad, nil))
	}
	bOperand := "a" // squaring multiplies the operand by itself
	if method == "mul" {
		bOperand = "b"
		for i := 0; i < limbs; i++ {
			addNode(ir.NewNode(loadID("b", i), ir.OpLoad, nil))
		}
	}

	var prevCarry string
	for i := 0; i < limbs; i++ {
		for j := 0; j < limbs; j++ {
			pid := fmt.Sprintf("p%d_%d", i, j)
			addNode(ir.NewNode(pid, ir.OpMulx, []string{loadID("a", i), loadID(bOperand, j)}))

			sid := fmt.Sprintf("s%d_%d", i, j)
			deps := []string{pid}
			if prevCarry != "" {
				deps = append(deps, prevCarry)
			}
			addNode(ir.NewNode(sid, ir.OpAdc, deps))
			prevCarry = sid
		}
	}

	for i := 0; i < limbs; i++ {
		addNode(ir.NewNode(fmt.Sprintf("out%d", i), ir.OpStore, []string{prevCarry}))
	}

	return ir.NewModel(nodes, order)
}
