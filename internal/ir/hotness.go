package ir

// hotness scoring is adapted from the teacher's
// internal/codegen/regalloc.RegisterAllocator.calculateSpillCost, which
// weights a virtual register's spill cost by its use count (and loop
// membership, which has no analogue in a straight-line kernel). Here the
// same "more consumers means this choice is more likely to matter" idea
// decides which Decisions start out hot: a decision only has "measurable
// impact" (spec.md §3) once its Node's result is actually consumed, and the
// more consumers there are, the more plausible register pressure — and
// therefore a spill-target decision — becomes.

// computeFanOut returns, for every node id, the number of other nodes that
// list it as a dependency.
func computeFanOut(nodes map[string]*Node) map[string]int {
	fanOut := make(map[string]int, len(nodes))
	for id := range nodes {
		fanOut[id] = 0
	}
	for _, n := range nodes {
		for _, dep := range n.Deps {
			if _, ok := fanOut[dep]; ok {
				fanOut[dep]++
			}
		}
	}
	return fanOut
}

// assignHotness sets the Hot flag on every decision in nodes based on each
// node's fan-out (consumer count) and op kind.
func assignHotness(nodes map[string]*Node) {
	fanOut := computeFanOut(nodes)

	for id, n := range nodes {
		uses := fanOut[id]

		if d, ok := n.Decisions[DecisionRegisterClass.String()]; ok {
			// A register-class choice is observable as soon as the value
			// is consumed at all.
			d.Hot = uses >= 1
		}

		if d, ok := n.Decisions[DecisionCarryUsage.String()]; ok {
			// Carry-chain usage is always hot: adc/sbb/adcx/adox nodes are
			// never inert, by construction of the op vocabulary.
			d.Hot = true
		}

		if d, ok := n.Decisions[DecisionSpillTarget.String()]; ok {
			// Spilling only matters once a value has enough consumers
			// that it may need to outlive a register-pressure window.
			d.Hot = uses >= 2
		}
	}
}
