package egraph

import (
	"sort"

	"github.com/gnolang/tsat/internal/term"
)

// EGraph holds e-classes of e-nodes closed under congruence.
// An EGraph is owned by a single saturation run and is not safe for
// concurrent mutation. Find, Lookup, Class and Classes only read and may be
// called concurrently as long as no mutation runs.
type EGraph struct {
	uf unionFind
	// nodes[id] is the e-node id was created for, with the child ids it was
	// given at that time.
	nodes   []ENode
	memo    map[string]ID
	classes map[ID]*EClass

	pending         []parent
	analysisPending []parent
	modifyPending   []ID

	analysis Analysis
	explain  *explainer

	unions int
}

// Option configures an EGraph.
type Option func(*EGraph)

// WithExplanations makes the e-graph record union provenance so that
// ExplainEquivalence can be used.
func WithExplanations() Option {
	return func(g *EGraph) {
		g.explain = newExplainer()
	}
}

// WithAnalysis installs an e-class analysis.
func WithAnalysis(a Analysis) Option {
	return func(g *EGraph) {
		g.analysis = a
	}
}

// New creates an empty e-graph.
func New(opts ...Option) *EGraph {
	g := &EGraph{
		memo:    make(map[string]ID),
		classes: make(map[ID]*EClass),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ExplanationsEnabled reports whether union provenance is recorded.
func (g *EGraph) ExplanationsEnabled() bool { return g.explain != nil }

// Find returns the canonical id of the class containing id.
func (g *EGraph) Find(id ID) ID { return g.uf.find(id) }

func (g *EGraph) findMut(id ID) ID { return g.uf.findMut(id) }

// Canonicalize returns n with every child replaced by its canonical id.
func (g *EGraph) Canonicalize(n ENode) ENode { return n.mapChildren(g.uf.find) }

func (g *EGraph) canonicalizeMut(n ENode) ENode { return n.mapChildren(g.uf.findMut) }

// Add inserts n and returns the canonical id of its class. If a congruent
// e-node already exists its class is returned and nothing is created.
func (g *EGraph) Add(n ENode) ID {
	return g.findMut(g.AddUncanonical(n))
}

// AddUncanonical is like Add but returns the id n was recorded under. With
// explanations enabled this id names exactly n (with the child ids given),
// which is what proofs refer to. Without explanations it equals Add.
func (g *EGraph) AddUncanonical(n ENode) ID {
	canon := g.canonicalizeMut(n)
	if g.explain == nil {
		if id, ok := g.memo[canon.key()]; ok {
			return g.findMut(id)
		}
		return g.makeClass(canon, canon)
	}

	rawKey := n.key()
	if id, ok := g.explain.raw[rawKey]; ok {
		return id
	}
	if existing, ok := g.memo[canon.key()]; ok {
		// A congruent e-node exists: record n as its own proof node and
		// join it to the existing class, justified by congruence.
		id := g.uf.makeSet()
		g.nodes = append(g.nodes, n.mapChildren(func(c ID) ID { return c }))
		g.explain.add(id)
		g.explain.raw[rawKey] = id
		g.explain.union(existing, id, Congruence())
		g.uf.parents[id] = g.findMut(existing)
		return id
	}
	id := g.makeClass(canon, n.mapChildren(func(c ID) ID { return c }))
	g.explain.raw[rawKey] = id
	return id
}

func (g *EGraph) makeClass(canon, raw ENode) ID {
	id := g.uf.makeSet()
	g.nodes = append(g.nodes, raw)
	if g.explain != nil {
		g.explain.add(id)
	}

	class := &EClass{ID: id, Nodes: []ENode{canon}}
	for _, c := range canon.Children {
		child := g.classes[c]
		child.parents = append(child.parents, parent{node: canon, id: id})
	}
	g.classes[id] = class
	g.memo[canon.key()] = id

	if g.analysis != nil {
		class.Data = g.analysis.Make(g, canon)
		g.modifyPending = append(g.modifyPending, id)
	}
	return id
}

// AddTerm inserts t bottom-up and returns the canonical id of its class.
// Inserting structurally equal terms always yields the same id.
func (g *EGraph) AddTerm(t term.Term) ID {
	return g.findMut(g.AddTermUncanonical(t))
}

// AddTermUncanonical inserts t and returns the id of its root e-node as
// AddUncanonical does.
func (g *EGraph) AddTermUncanonical(t term.Term) ID {
	children := make([]ID, len(t.Children))
	for i, c := range t.Children {
		children[i] = g.AddTermUncanonical(c)
	}
	return g.AddUncanonical(ENode{Op: t.Op, Children: children})
}

// Lookup returns the class of n if a congruent e-node is present.
func (g *EGraph) Lookup(n ENode) (ID, bool) {
	id, ok := g.memo[g.Canonicalize(n).key()]
	if !ok {
		return 0, false
	}
	return g.Find(id), true
}

// LookupTerm returns the class representing t if every subterm is present.
func (g *EGraph) LookupTerm(t term.Term) (ID, bool) {
	children := make([]ID, len(t.Children))
	for i, c := range t.Children {
		id, ok := g.LookupTerm(c)
		if !ok {
			return 0, false
		}
		children[i] = id
	}
	return g.Lookup(ENode{Op: t.Op, Children: children})
}

// Union merges the classes of a and b and reports whether they were
// distinct. Congruence is not restored until Rebuild.
func (g *EGraph) Union(a, b ID, why Justification) bool {
	return g.performUnion(a, b, why)
}

func (g *EGraph) performUnion(a, b ID, why Justification) bool {
	ra, rb := g.findMut(a), g.findMut(b)
	if ra == rb {
		return false
	}
	if g.explain != nil {
		g.explain.union(a, b, why)
	}

	ca, cb := g.classes[ra], g.classes[rb]
	// keep the bigger class as the representative
	if len(ca.Nodes)+len(ca.parents) < len(cb.Nodes)+len(cb.parents) {
		ra, rb = rb, ra
		ca, cb = cb, ca
	}
	g.uf.union(ra, rb)
	g.unions++

	g.pending = append(g.pending, cb.parents...)

	if g.analysis != nil {
		merged, changedA, changedB := g.analysis.Merge(ca.Data, cb.Data)
		if changedA {
			g.analysisPending = append(g.analysisPending, ca.parents...)
		}
		if changedB {
			g.analysisPending = append(g.analysisPending, cb.parents...)
		}
		ca.Data = merged
		g.modifyPending = append(g.modifyPending, ra)
	}

	ca.Nodes = append(ca.Nodes, cb.Nodes...)
	ca.parents = append(ca.parents, cb.parents...)
	delete(g.classes, rb)
	return true
}

// Class returns the class containing id.
func (g *EGraph) Class(id ID) *EClass {
	return g.classes[g.Find(id)]
}

// Classes returns all classes ordered by id.
func (g *EGraph) Classes() []*EClass {
	out := make([]*EClass, 0, len(g.classes))
	for _, c := range g.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NumClasses is the number of e-classes.
func (g *EGraph) NumClasses() int { return len(g.classes) }

// TotalSize is the number of e-nodes over all classes. Between a union and
// the next Rebuild it may count congruent duplicates.
func (g *EGraph) TotalSize() int {
	n := 0
	for _, c := range g.classes {
		n += len(c.Nodes)
	}
	return n
}

// NumIDs is the number of ids ever handed out, merged or not.
func (g *EGraph) NumIDs() int { return g.uf.size() }

// NumUnions is the number of unions that merged two distinct classes,
// including those made by Rebuild.
func (g *EGraph) NumUnions() int { return g.unions }

// Clean reports whether there is no pending repair work.
func (g *EGraph) Clean() bool {
	return len(g.pending) == 0 && len(g.analysisPending) == 0 && len(g.modifyPending) == 0
}
