package ir

import (
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/rng"
)

// MutationKind distinguishes the two mutation primitives of spec.md §3.
type MutationKind int

const (
	MutationNone MutationKind = iota
	MutationPermutation
	MutationDecision
)

func (k MutationKind) String() string {
	switch k {
	case MutationPermutation:
		return "permutation"
	case MutationDecision:
		return "decision"
	default:
		return "none"
	}
}

// undoEntry captures exactly enough state to reverse the single most recent
// mutation. A permutation move is undone by moving the node back; a
// decision flip is undone by restoring the old value.
type undoEntry struct {
	kind MutationKind

	// permutation fields
	nodeID   string
	fromPos  int
	toPos    int
	walked   int
	direction string

	// decision fields
	decisionNodeID string
	decisionName   string
	oldValue       int
}

// PermutationResult describes what MutatePermutation actually did, for the
// mutation-log CSV (spec.md §3 "permutation-details").
type PermutationResult struct {
	NodeID    string
	Direction string
	Walked    int
	FromPos   int
	ToPos     int
}

// DecisionResult describes what MutateDecision actually did, for the
// mutation-log CSV ("decision-details").
type DecisionResult struct {
	NodeID   string
	Decision string
	OldValue string
	NewValue string
}

// MutatePermutation always succeeds (spec.md §4.2): it picks a node and a
// direction, slides it within its legal interval via a random walk bounded
// by the interval size, and records an undo entry. If the node's interval
// is a single point, this is a no-op with Walked == 0.
func (m *Model) MutatePermutation(r *rng.Rng) PermutationResult {
	idx := r.UniformIndex(len(m.order))
	id := m.order[idx]

	lo, hi := m.legalInterval(id)

	direction := "forward"
	if r.UniformReal() < 0.5 {
		direction = "back"
	}

	if lo == hi {
		m.pending = &undoEntry{kind: MutationPermutation, nodeID: id, fromPos: idx, toPos: idx, walked: 0, direction: direction}
		return PermutationResult{NodeID: id, Direction: direction, Walked: 0, FromPos: idx, ToPos: idx}
	}

	var maxSteps int
	if direction == "forward" {
		maxSteps = hi - idx
	} else {
		maxSteps = idx - lo
	}

	walked := 0
	for walked < maxSteps && r.UniformReal() < 0.5 {
		walked++
	}

	target := idx
	if direction == "forward" {
		target = idx + walked
	} else {
		target = idx - walked
	}
	if target < lo {
		target = lo
	}
	if target > hi {
		target = hi
	}

	m.pending = &undoEntry{kind: MutationPermutation, nodeID: id, fromPos: idx, toPos: target, walked: walked, direction: direction}
	m.moveTo(idx, target)

	return PermutationResult{NodeID: id, Direction: direction, Walked: walked, FromPos: idx, ToPos: target}
}

// hotDecisions returns every (nodeID, decisionName) pair across the model
// whose Decision is currently flippable.
func (m *Model) hotDecisions() [][2]string {
	var out [][2]string
	for _, id := range m.order {
		n := m.nodes[id]
		for name, d := range n.Decisions {
			if d.flippable() {
				out = append(out, [2]string{id, name})
			}
		}
	}
	return out
}

// MutateDecision picks a hot decision uniformly at random and flips it to a
// uniformly random other value in its choice set. Returns ok == false if no
// hot decision exists anywhere in the model (spec.md §4.2).
func (m *Model) MutateDecision(r *rng.Rng) (result DecisionResult, ok bool) {
	candidates := m.hotDecisions()
	if len(candidates) == 0 {
		return DecisionResult{}, false
	}

	pick := candidates[r.UniformIndex(len(candidates))]
	nodeID, decName := pick[0], pick[1]
	d := m.nodes[nodeID].Decisions[decName]

	oldValue := d.Value
	newValue := oldValue
	for newValue == oldValue {
		newValue = r.UniformIndex(len(d.Choices))
	}

	m.pending = &undoEntry{kind: MutationDecision, decisionNodeID: nodeID, decisionName: decName, oldValue: oldValue}
	d.Value = newValue

	return DecisionResult{
		NodeID:   nodeID,
		Decision: decName,
		OldValue: d.Choices[oldValue],
		NewValue: d.Choices[newValue],
	}, true
}

// RevertLastMutation undoes exactly the most recent mutation. Calling it
// with no pending mutation is a BadState (spec.md §4.2).
func (m *Model) RevertLastMutation() error {
	if m.pending == nil {
		return kerr.New(kerr.BadState, "ir: RevertLastMutation called with no pending mutation")
	}

	p := m.pending
	switch p.kind {
	case MutationPermutation:
		if p.toPos != p.fromPos {
			m.moveTo(p.toPos, p.fromPos)
		}
	case MutationDecision:
		m.nodes[p.decisionNodeID].Decisions[p.decisionName].Value = p.oldValue
	}

	m.pending = nil
	return nil
}

// HasPendingMutation reports whether a mutation is awaiting either
// RevertLastMutation or being superseded by the next mutate call.
func (m *Model) HasPendingMutation() bool { return m.pending != nil }

// clearPending drops the pending undo entry without applying it — called
// once a mutation has been accepted and will never be reverted.
func (m *Model) clearPending() { m.pending = nil }

// AcceptPendingMutation finalizes the last mutation (it will never be
// reverted). Optimizers call this on acceptance instead of leaving a stale
// undo entry around, which would otherwise make a later, unrelated
// RevertLastMutation call undo the wrong thing.
func (m *Model) AcceptPendingMutation() { m.clearPending() }
