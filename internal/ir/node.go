package ir

// Node is one unit of the program IR: a single high-level operation with a
// stable identity, an ordered list of dependency identities (defining a
// DAG), and a set of decision variables parameterizing its lowering.
type Node struct {
	ID   string
	Op   NodeOp
	Deps []string

	// Decisions is keyed by DecisionKind.String() so lookups and JSON
	// round-trips agree on a stable name rather than a positional index.
	Decisions map[string]*Decision
}

// clone returns a deep copy of n, used by snapshotting.
func (n *Node) clone() *Node {
	deps := make([]string, len(n.Deps))
	copy(deps, n.Deps)

	decisions := make(map[string]*Decision, len(n.Decisions))
	for k, d := range n.Decisions {
		decisions[k] = d.clone()
	}

	return &Node{ID: n.ID, Op: n.Op, Deps: deps, Decisions: decisions}
}

// NewNode builds a Node with the decision set implied by its op kind. Every
// node that has a plausible register-class choice or carry-chain
// participation gets that decision; every node gets a spill-target
// decision, since any live value may need to be spilled under register
// pressure. Hotness is assigned later, by the owning Model, once the full
// dependency graph (and therefore fan-out) is known.
func NewNode(id string, op NodeOp, deps []string) *Node {
	n := &Node{ID: id, Op: op, Deps: append([]string(nil), deps...), Decisions: map[string]*Decision{}}

	n.Decisions[DecisionSpillTarget.String()] = &Decision{
		Kind:    DecisionSpillTarget,
		Choices: append([]string(nil), spillTargetChoices...),
		Value:   0,
	}

	if op.hasRegisterClassChoice() {
		n.Decisions[DecisionRegisterClass.String()] = &Decision{
			Kind:    DecisionRegisterClass,
			Choices: append([]string(nil), registerClassChoices...),
			Value:   0,
		}
	}

	if op.usesCarryFlag() {
		n.Decisions[DecisionCarryUsage.String()] = &Decision{
			Kind:    DecisionCarryUsage,
			Choices: append([]string(nil), carryUsageChoices...),
			Value:   0,
		}
	}

	return n
}
