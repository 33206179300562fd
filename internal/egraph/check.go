package egraph

import (
	"fmt"
	"slices"
)

// CheckInvariants verifies the structural invariants of a rebuilt e-graph:
// every class is keyed by its canonical id, holds canonical sorted unique
// e-nodes, and no e-node appears in two classes. It is meant for tests and
// debug runs; it is linear in the size of the graph.
func (g *EGraph) CheckInvariants() error {
	if !g.Clean() {
		return fmt.Errorf("e-graph has pending work; call Rebuild first")
	}

	owner := make(map[string]ID, len(g.memo))
	for id, class := range g.classes {
		if class.ID != id {
			return fmt.Errorf("class stored under %d has id %d", id, class.ID)
		}
		if root := g.Find(id); root != id {
			return fmt.Errorf("class %d is not canonical (root %d)", id, root)
		}
		if len(class.Nodes) == 0 {
			return fmt.Errorf("class %d is empty", id)
		}
		if !slices.IsSortedFunc(class.Nodes, compareNodes) {
			return fmt.Errorf("class %d nodes are not sorted", id)
		}
		for i, n := range class.Nodes {
			if i > 0 && compareNodes(class.Nodes[i-1], n) == 0 {
				return fmt.Errorf("class %d holds %s twice", id, n)
			}
			for _, c := range n.Children {
				if g.Find(c) != c {
					return fmt.Errorf("class %d holds non-canonical node %s", id, n)
				}
				if _, ok := g.classes[c]; !ok {
					return fmt.Errorf("class %d node %s refers to missing class %d", id, n, c)
				}
			}
			key := n.key()
			if other, ok := owner[key]; ok {
				return fmt.Errorf("node %s is in classes %d and %d", n, other, id)
			}
			owner[key] = id
			memoID, ok := g.memo[key]
			if !ok {
				return fmt.Errorf("node %s of class %d is missing from the hashcons", n, id)
			}
			if g.Find(memoID) != id {
				return fmt.Errorf("hashcons maps %s to class %d, want %d", n, g.Find(memoID), id)
			}
		}
	}
	return nil
}
