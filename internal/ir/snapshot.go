package ir

import "github.com/cryptopt-go/cryptopt/internal/kerr"

// snapshotState is a logically-deep copy of the mutable parts of a Model:
// the topological order and every decision's current value. Node identity,
// dependency edges, and decision choice sets never change after
// construction, so they need not be copied — only Value (and the
// compile-time Hot flag, which also never changes post-construction) matter
// for equality and for export() == savedAt(s).
type snapshotState struct {
	order   []string
	nodes   map[string]*Node
}

// SaveSnapshot deep-copies the current order and decision values under id.
// Multiple snapshots may coexist; saving to an id that already exists
// overwrites it.
func (m *Model) SaveSnapshot(id string) {
	nodes := make(map[string]*Node, len(m.nodes))
	for nid, n := range m.nodes {
		nodes[nid] = n.clone()
	}
	m.snapshots[id] = &snapshotState{
		order: append([]string(nil), m.order...),
		nodes: nodes,
	}
}

// RestoreSnapshot replaces the current order and decision values with those
// saved under id. Returns BadState if id was never saved.
func (m *Model) RestoreSnapshot(id string) error {
	snap, ok := m.snapshots[id]
	if !ok {
		return kerr.New(kerr.BadState, "ir: RestoreSnapshot: no snapshot saved under %q", id)
	}

	m.order = append([]string(nil), snap.order...)
	m.position = make(map[string]int, len(m.order))
	for i, id := range m.order {
		m.position[id] = i
	}

	nodes := make(map[string]*Node, len(snap.nodes))
	for nid, n := range snap.nodes {
		nodes[nid] = n.clone()
	}
	m.nodes = nodes

	// A restore is independent of the undo log: any mutation pending
	// before the restore is no longer meaningfully revertible against the
	// restored state, so it is dropped rather than left dangling.
	m.pending = nil

	return nil
}

// HasSnapshot reports whether id has been saved.
func (m *Model) HasSnapshot(id string) bool {
	_, ok := m.snapshots[id]
	return ok
}
