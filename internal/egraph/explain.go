package egraph

import (
	"errors"
	"fmt"

	"github.com/gnolang/tsat/internal/term"
)

var (
	// ErrExplanationsDisabled is returned when an explanation is requested
	// from an e-graph created without WithExplanations.
	ErrExplanationsDisabled = errors.New("explanations are not enabled")
	// ErrNotEquivalent is returned when the two terms are in different
	// classes.
	ErrNotEquivalent = errors.New("terms are not equivalent")
)

// JustificationKind says why two e-nodes were unioned.
type JustificationKind int

const (
	JustRule JustificationKind = iota
	JustCongruence
	JustAnalysis
)

func (k JustificationKind) String() string {
	switch k {
	case JustRule:
		return "rule"
	case JustCongruence:
		return "congruence"
	case JustAnalysis:
		return "analysis"
	default:
		return fmt.Sprintf("JustificationKind(%d)", int(k))
	}
}

// Justification is the provenance of a union.
type Justification struct {
	Kind JustificationKind
	// Name is the rule or analysis name. Empty for congruence.
	Name string
}

// ByRule justifies a union made by applying the named rule.
func ByRule(name string) Justification { return Justification{Kind: JustRule, Name: name} }

// Congruence justifies a union of two e-nodes with equivalent children.
func Congruence() Justification { return Justification{Kind: JustCongruence} }

// ByAnalysis justifies a union made by the named analysis.
func ByAnalysis(name string) Justification {
	return Justification{Kind: JustAnalysis, Name: name}
}

// edge is a link of the proof forest. Following it from its owner reaches
// next; forward reports whether that is the direction the justifying rule
// rewrites in.
type edge struct {
	next    ID
	just    Justification
	forward bool
}

// explainer is a spanning forest over all ids whose edges are the unions
// performed, each labelled with its justification. Unlike the union-find it
// is never compressed, so the path between two ids replays actual unions.
type explainer struct {
	edges []edge
	// raw maps the key of an e-node with its children exactly as given to
	// the id it was added as.
	raw map[string]ID
}

func newExplainer() *explainer {
	return &explainer{raw: make(map[string]ID)}
}

func (x *explainer) add(id ID) {
	x.edges = append(x.edges, edge{next: id})
}

// makeLeader reverses the path from id to its root so id becomes the root.
func (x *explainer) makeLeader(id ID) {
	path := []ID{id}
	for cur := id; x.edges[cur].next != cur; {
		cur = x.edges[cur].next
		path = append(path, cur)
	}
	for i := len(path) - 2; i >= 0; i-- {
		node, next := path[i], path[i+1]
		e := x.edges[node]
		x.edges[next] = edge{next: node, just: e.just, forward: !e.forward}
	}
	x.edges[id] = edge{next: id}
}

// union links a to b. a and b must be in different trees.
func (x *explainer) union(a, b ID, why Justification) {
	x.makeLeader(a)
	x.edges[a] = edge{next: b, just: why, forward: true}
}

func (x *explainer) ancestors(id ID) []ID {
	path := []ID{id}
	for x.edges[id].next != id {
		id = x.edges[id].next
		path = append(path, id)
	}
	return path
}

// Step is one rewrite between consecutive terms of an Explanation.
type Step struct {
	// Rule names the rule or analysis that justifies the step.
	Rule string
	// Backward is set when the rule was used right-to-left.
	Backward bool
	// Analysis is set when an analysis rather than a rule made the union.
	Analysis bool
	// Path locates the rewritten subterm, as child indices from the root.
	Path []int
	// Sub is the subterm at Path after the step.
	Sub term.Term
}

// Explanation is a chain Terms[0] = ... = Terms[n] where Steps[i] rewrites
// Terms[i] into Terms[i+1] at a single position.
type Explanation struct {
	Terms []term.Term
	Steps []Step
}

// Len is the number of rewrite steps.
func (e *Explanation) Len() int { return len(e.Steps) }

// FlatStrings renders the chain one term per line. Every term but the first
// marks the subterm that was just rewritten as (Rewrite=> rule sub), or
// (Rewrite<= rule sub) for a backward step.
func (e *Explanation) FlatStrings() []string {
	out := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		if i == 0 {
			out[i] = t.String()
			continue
		}
		step := e.Steps[i-1]
		dir := "Rewrite=>"
		if step.Backward {
			dir = "Rewrite<="
		}
		marked := term.New(dir, term.Leaf(step.Rule), step.Sub)
		annotated, ok := t.Replace(step.Path, marked)
		if !ok {
			annotated = t
		}
		out[i] = annotated.String()
	}
	return out
}

// ExplainEquivalence returns a proof that a and b are equal. Both terms are
// added to the graph first; since extracted terms are built from existing
// e-nodes, this creates no new classes for them.
func (g *EGraph) ExplainEquivalence(a, b term.Term) (*Explanation, error) {
	if g.explain == nil {
		return nil, ErrExplanationsDisabled
	}
	return g.ExplainIDs(g.AddTermUncanonical(a), g.AddTermUncanonical(b))
}

// ExplainIDs is ExplainEquivalence for ids returned by AddUncanonical or
// AddTermUncanonical.
func (g *EGraph) ExplainIDs(a, b ID) (*Explanation, error) {
	if g.explain == nil {
		return nil, ErrExplanationsDisabled
	}
	if g.Find(a) != g.Find(b) {
		return nil, fmt.Errorf("%w: %s and %s", ErrNotEquivalent, g.rawTerm(a), g.rawTerm(b))
	}

	p := &prover{g: g, cache: make(map[[2]ID][]Step)}
	steps := p.explain(a, b)

	cur := g.rawTerm(a)
	exp := &Explanation{Terms: []term.Term{cur}, Steps: steps}
	for _, s := range steps {
		next, ok := cur.Replace(s.Path, s.Sub)
		if !ok {
			return nil, fmt.Errorf("explanation step %q does not apply to %s at %v", s.Rule, cur, s.Path)
		}
		exp.Terms = append(exp.Terms, next)
		cur = next
	}
	return exp, nil
}

// rawTerm is the term id was added as.
func (g *EGraph) rawTerm(id ID) term.Term {
	n := g.nodes[id]
	if n.IsLeaf() {
		return term.Leaf(n.Op)
	}
	children := make([]term.Term, len(n.Children))
	for i, c := range n.Children {
		children[i] = g.rawTerm(c)
	}
	return term.New(n.Op, children...)
}

type prover struct {
	g     *EGraph
	cache map[[2]ID][]Step
}

// explain returns the steps rewriting rawTerm(a) into rawTerm(b). a and b
// must share a proof tree.
func (p *prover) explain(a, b ID) []Step {
	if a == b {
		return nil
	}
	if steps, ok := p.cache[[2]ID{a, b}]; ok {
		return steps
	}

	x := p.g.explain
	up := x.ancestors(a)
	down := x.ancestors(b)
	depth := make(map[ID]int, len(down))
	for i, id := range down {
		depth[id] = i
	}
	lca := 0
	for lca < len(up) {
		if _, ok := depth[up[lca]]; ok {
			break
		}
		lca++
	}
	// up[lca] == down[depth[up[lca]]] is the common ancestor.
	var steps []Step
	for i := 0; i < lca; i++ {
		e := x.edges[up[i]]
		steps = append(steps, p.edgeSteps(up[i], e.next, e.just, e.forward)...)
	}
	for i := depth[up[lca]] - 1; i >= 0; i-- {
		e := x.edges[down[i]]
		steps = append(steps, p.edgeSteps(e.next, down[i], e.just, !e.forward)...)
	}

	p.cache[[2]ID{a, b}] = steps
	return steps
}

// edgeSteps explains a single proof-forest edge traversed from -> to.
func (p *prover) edgeSteps(from, to ID, why Justification, forward bool) []Step {
	if why.Kind != JustCongruence {
		return []Step{{
			Rule:     why.Name,
			Backward: !forward,
			Analysis: why.Kind == JustAnalysis,
			Sub:      p.g.rawTerm(to),
		}}
	}

	fn, tn := p.g.nodes[from], p.g.nodes[to]
	var steps []Step
	for i := range fn.Children {
		for _, s := range p.explain(fn.Children[i], tn.Children[i]) {
			lifted := s
			lifted.Path = append([]int{i}, s.Path...)
			steps = append(steps, lifted)
		}
	}
	return steps
}
