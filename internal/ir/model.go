package ir

import (
	"fmt"

	"github.com/cryptopt-go/cryptopt/internal/kerr"
)

// Model holds the Node set, the current topological order, the named
// snapshot store, and the undo log for the single most recent mutation, per
// spec.md §3.
type Model struct {
	nodes map[string]*Node
	// order is a permutation of the keys of nodes, consistent with every
	// Node's Deps (a predecessor always appears before its dependents).
	order []string
	// position is the inverse of order: node id -> index in order. Kept in
	// sync with order by every mutator in this package.
	position map[string]int

	snapshots map[string]*snapshotState
	pending   *undoEntry
}

// NewModel builds a Model from a node set and an initial topological order.
// It assigns decision hotness from the dependency graph's fan-out shape and
// validates that order is in fact a valid topological sort.
func NewModel(nodes []*Node, order []string) (*Model, error) {
	nodeMap := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}

	assignHotness(nodeMap)

	m := &Model{
		nodes:     nodeMap,
		order:     append([]string(nil), order...),
		position:  make(map[string]int, len(order)),
		snapshots: make(map[string]*snapshotState),
	}
	for i, id := range m.order {
		m.position[id] = i
	}

	if err := m.validateTopoOrder(); err != nil {
		return nil, err
	}

	return m, nil
}

// validateTopoOrder checks that every dependency of every node appears
// earlier in m.order than the node itself (spec.md §3 invariant).
func (m *Model) validateTopoOrder() error {
	if len(m.order) != len(m.nodes) {
		return kerr.New(kerr.BadState, "ir: order has %d entries but there are %d nodes", len(m.order), len(m.nodes))
	}
	for id, pos := range m.position {
		n, ok := m.nodes[id]
		if !ok {
			return kerr.New(kerr.BadState, "ir: order references unknown node %q", id)
		}
		for _, dep := range n.Deps {
			depPos, ok := m.position[dep]
			if !ok {
				return kerr.New(kerr.BadState, "ir: node %q depends on unknown node %q", id, dep)
			}
			if depPos >= pos {
				return kerr.New(kerr.BadState, "ir: topological order violated: %q (pos %d) depends on %q (pos %d)", id, pos, dep, depPos)
			}
		}
	}
	return nil
}

// Order returns a copy of the current topological order.
func (m *Model) Order() []string {
	return append([]string(nil), m.order...)
}

// NodeCount returns the number of nodes in the model.
func (m *Model) NodeCount() int { return len(m.nodes) }

// Node returns the node with the given id, or nil if it does not exist.
func (m *Model) Node(id string) *Node { return m.nodes[id] }

// NodesInOrder returns the Node pointers in current topological order, the
// shape persisted to tested_incorrect.json on a MeasureIncorrect failure
// (spec.md §6).
func (m *Model) NodesInOrder() []*Node {
	out := make([]*Node, len(m.order))
	for i, id := range m.order {
		out[i] = m.nodes[id]
	}
	return out
}

// fanOut returns the set of node ids whose Deps include id (the "successors"
// of id in the dependency DAG).
func (m *Model) fanOut(id string) []string {
	var succ []string
	for _, n := range m.nodes {
		for _, dep := range n.Deps {
			if dep == id {
				succ = append(succ, n.ID)
				break
			}
		}
	}
	return succ
}

// legalInterval computes the [lo, hi] range of order-positions that node id
// may occupy without violating any dependency, per spec.md §4.2: lo is one
// past the latest predecessor's position, hi is one before the earliest
// successor's position.
func (m *Model) legalInterval(id string) (lo, hi int) {
	n := m.nodes[id]

	lo = 0
	for _, dep := range n.Deps {
		if p := m.position[dep]; p+1 > lo {
			lo = p + 1
		}
	}

	hi = len(m.order) - 1
	for _, succID := range m.fanOut(id) {
		if p := m.position[succID]; p-1 < hi {
			hi = p - 1
		}
	}

	return lo, hi
}

// moveTo relocates the node currently at position from to position to,
// shifting the nodes in between by one slot, and keeps m.position in sync.
func (m *Model) moveTo(from, to int) {
	if from == to {
		return
	}
	id := m.order[from]
	if from < to {
		copy(m.order[from:to], m.order[from+1:to+1])
	} else {
		copy(m.order[to+1:from+1], m.order[to:from])
	}
	m.order[to] = id

	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		m.position[m.order[i]] = i
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("ir.Model{nodes=%d, order=%v}", len(m.nodes), m.order)
}
