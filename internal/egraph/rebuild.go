package egraph

import (
	"slices"
)

// Rebuild restores congruence closure and analysis consistency after a
// batch of Add and Union calls. It returns the number of unions it made.
// Rebuild is idempotent: on a clean graph it returns 0 and changes nothing
// observable.
func (g *EGraph) Rebuild() int {
	before := g.unions
	g.processUnions()
	g.rebuildClasses()
	return g.unions - before
}

func (g *EGraph) processUnions() {
	for !g.Clean() {
		for len(g.pending) > 0 {
			p := g.pending[len(g.pending)-1]
			g.pending = g.pending[:len(g.pending)-1]

			canon := g.canonicalizeMut(p.node)
			key := canon.key()
			if existing, ok := g.memo[key]; ok {
				g.performUnion(existing, p.id, Congruence())
			}
			g.memo[key] = p.id
		}

		for len(g.analysisPending) > 0 {
			p := g.analysisPending[len(g.analysisPending)-1]
			g.analysisPending = g.analysisPending[:len(g.analysisPending)-1]

			id := g.findMut(p.id)
			class := g.classes[id]
			data := g.analysis.Make(g, g.canonicalizeMut(p.node))
			merged, changed, _ := g.analysis.Merge(class.Data, data)
			class.Data = merged
			if changed {
				g.analysisPending = append(g.analysisPending, class.parents...)
				g.modifyPending = append(g.modifyPending, id)
			}
		}

		for len(g.modifyPending) > 0 {
			id := g.modifyPending[len(g.modifyPending)-1]
			g.modifyPending = g.modifyPending[:len(g.modifyPending)-1]
			g.analysis.Modify(g, g.findMut(id))
		}
	}
}

// rebuildClasses canonicalizes, sorts and deduplicates the e-nodes of every
// class and drops parent entries that became congruent duplicates.
func (g *EGraph) rebuildClasses() {
	for _, class := range g.classes {
		for i, n := range class.Nodes {
			class.Nodes[i] = g.canonicalizeMut(n)
		}
		slices.SortFunc(class.Nodes, compareNodes)
		class.Nodes = slices.CompactFunc(class.Nodes, func(a, b ENode) bool {
			return compareNodes(a, b) == 0
		})

		seen := make(map[string]struct{}, len(class.parents))
		kept := class.parents[:0]
		for _, p := range class.parents {
			p.node = g.canonicalizeMut(p.node)
			key := p.node.key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, p)
		}
		class.parents = kept
	}
}
