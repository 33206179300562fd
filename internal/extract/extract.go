// Package extract selects the cheapest term represented by an e-class.
package extract

import (
	"math"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/term"
)

type best struct {
	cost float64
	node egraph.ENode
}

// Extractor holds, for every class of a rebuilt e-graph, the cheapest
// e-node under a cost function. The e-graph must not change while the
// extractor is in use.
type Extractor struct {
	g     *egraph.EGraph
	cost  CostFunction
	costs map[egraph.ID]best
}

// New computes the best e-node of every class by fixpoint relaxation.
// Self-referencing classes are handled because a class only improves
// strictly, and costs are bounded below: a negative node cost counts as
// zero and a NaN cost as +Inf.
func New(g *egraph.EGraph, cost CostFunction) *Extractor {
	x := &Extractor{g: g, cost: cost, costs: make(map[egraph.ID]best)}
	x.relax()
	return x
}

func (x *Extractor) relax() {
	classes := x.g.Classes()
	for changed := true; changed; {
		changed = false
		for _, class := range classes {
			cur, ok := x.costs[class.ID]
			if !ok {
				cur.cost = math.Inf(1)
			}
			for _, n := range class.Nodes {
				c := x.nodeCost(n)
				// strict improvement keeps the first node in sort order on ties
				if c < cur.cost {
					cur = best{cost: c, node: n}
					x.costs[class.ID] = cur
					changed = true
				}
			}
		}
	}
}

func (x *Extractor) nodeCost(n egraph.ENode) float64 {
	children := make([]float64, len(n.Children))
	for i, c := range n.Children {
		b, ok := x.costs[x.g.Find(c)]
		if !ok {
			return math.Inf(1)
		}
		children[i] = b.cost
	}
	c := x.cost.Cost(n.Op, children)
	if math.IsNaN(c) {
		return math.Inf(1)
	}
	return math.Max(c, 0)
}

// Cost returns the best cost of the class id, or +Inf if it has no finite
// term.
func (x *Extractor) Cost(id egraph.ID) float64 {
	if b, ok := x.costs[x.g.Find(id)]; ok {
		return b.cost
	}
	return math.Inf(1)
}

// FindBest returns the cheapest term of the class id and its cost. ok is
// false if the class has no finite term.
func (x *Extractor) FindBest(id egraph.ID) (cost float64, t term.Term, ok bool) {
	cost = x.Cost(id)
	if math.IsInf(cost, 1) {
		return cost, term.Term{}, false
	}
	t, ok = x.build(x.g.Find(id), make(map[egraph.ID]bool))
	return cost, t, ok
}

// build follows the chosen e-nodes down from id. onPath guards against
// cycles, which a cost function that is not strictly monotone can produce.
func (x *Extractor) build(id egraph.ID, onPath map[egraph.ID]bool) (term.Term, bool) {
	if onPath[id] {
		return term.Term{}, false
	}
	b, ok := x.costs[id]
	if !ok {
		return term.Term{}, false
	}
	onPath[id] = true
	defer delete(onPath, id)

	children := make([]term.Term, len(b.node.Children))
	for i, c := range b.node.Children {
		child, ok := x.build(x.g.Find(c), onPath)
		if !ok {
			return term.Term{}, false
		}
		children[i] = child
	}
	return term.New(b.node.Op, children...), true
}
