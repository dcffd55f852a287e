package ir

// DecisionKind names which code-generation choice a Decision parameterizes.
// The choice-set shapes are adapted from the teacher's regalloc package
// (register class) and lir's memory-operand shape (spill target), plus the
// ADX/ADC carry-chain choice a field-arithmetic kernel actually has to make.
type DecisionKind int

const (
	DecisionRegisterClass DecisionKind = iota
	DecisionSpillTarget
	DecisionCarryUsage
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionRegisterClass:
		return "register-class"
	case DecisionSpillTarget:
		return "spill-target"
	case DecisionCarryUsage:
		return "carry-usage"
	default:
		return "unknown-decision"
	}
}

func parseDecisionKind(s string) (DecisionKind, bool) {
	switch s {
	case "register-class":
		return DecisionRegisterClass, true
	case "spill-target":
		return DecisionSpillTarget, true
	case "carry-usage":
		return DecisionCarryUsage, true
	default:
		return 0, false
	}
}

// Decision is one code-generation choice attached to a Node: a finite set
// of string labels, the index of the currently-selected choice, and a
// hotness flag (spec.md §3: "a 'hotness' flag marking whether the decision
// currently has measurable impact").
type Decision struct {
	Kind    DecisionKind
	Choices []string
	Value   int
	Hot     bool
}

// clone returns a deep copy, used by snapshotting.
func (d *Decision) clone() *Decision {
	choices := make([]string, len(d.Choices))
	copy(choices, d.Choices)
	return &Decision{Kind: d.Kind, Choices: choices, Value: d.Value, Hot: d.Hot}
}

// flippable reports whether this decision has another value to flip to.
func (d *Decision) flippable() bool {
	return d.Hot && len(d.Choices) > 1
}

// registerClassChoices and friends are the canonical choice sets a Node
// constructor assigns; kept centralized so import/export and construction
// agree on vocabulary.
var (
	registerClassChoices = []string{"gpr", "xmm"}
	spillTargetChoices   = []string{"none", "slot0", "slot1", "slot2", "slot3"}
	carryUsageChoices    = []string{"cf", "no-cf"}
)
