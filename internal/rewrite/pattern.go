package rewrite

import (
	"fmt"
	"strings"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/term"
)

// IsVar reports whether op names a pattern variable.
func IsVar(op string) bool {
	return len(op) > 1 && strings.HasPrefix(op, "?")
}

// Pattern is a term with variables.
type Pattern struct {
	ast  term.Term
	vars []string
}

// NewPattern wraps t as a pattern.
func NewPattern(t term.Term) *Pattern {
	p := &Pattern{ast: t}
	seen := make(map[string]bool)
	t.Walk(func(_ []int, sub term.Term) bool {
		if sub.IsLeaf() && IsVar(sub.Op) && !seen[sub.Op] {
			seen[sub.Op] = true
			p.vars = append(p.vars, sub.Op)
		}
		return true
	})
	return p
}

// ParsePattern parses a pattern in prefix notation.
func ParsePattern(input string) (*Pattern, error) {
	t, err := term.Parse(input)
	if err != nil {
		return nil, err
	}
	var bad error
	t.Walk(func(_ []int, sub term.Term) bool {
		switch {
		case sub.Op == "?":
			bad = fmt.Errorf("variable name is empty")
		case IsVar(sub.Op) && !sub.IsLeaf():
			bad = fmt.Errorf("variable %s cannot be applied to arguments", sub.Op)
		}
		return bad == nil
	})
	if bad != nil {
		return nil, bad
	}
	return NewPattern(t), nil
}

// MustParsePattern is ParsePattern that panics on error.
func MustParsePattern(input string) *Pattern {
	p, err := ParsePattern(input)
	if err != nil {
		panic(err)
	}
	return p
}

// Term returns the pattern as a term, variables included.
func (p *Pattern) Term() term.Term { return p.ast }

// Vars returns the variables of p in order of first occurrence.
func (p *Pattern) Vars() []string { return p.vars }

func (p *Pattern) String() string { return p.ast.String() }

// SearchMatches are the substitutions under which a pattern matched one
// e-class.
type SearchMatches struct {
	EClass egraph.ID
	Substs []Subst
}

// Search matches p against every class of g, in class id order. When limit
// is positive, search stops once at least limit substitutions were found.
// Search only reads g; g must be rebuilt.
func (p *Pattern) Search(g *egraph.EGraph, limit int) []SearchMatches {
	var (
		out   []SearchMatches
		total int
	)
	for _, class := range g.Classes() {
		m, ok := p.SearchClass(g, class.ID)
		if !ok {
			continue
		}
		out = append(out, m)
		total += len(m.Substs)
		if limit > 0 && total >= limit {
			break
		}
	}
	return out
}

// SearchClass matches p against the class id.
func (p *Pattern) SearchClass(g *egraph.EGraph, id egraph.ID) (SearchMatches, bool) {
	id = g.Find(id)
	var substs []Subst
	matchClass(g, p.ast, id, Subst{}, func(s Subst) {
		substs = append(substs, s)
	})
	if len(substs) == 0 {
		return SearchMatches{}, false
	}
	return SearchMatches{EClass: id, Substs: substs}, true
}

// matchClass calls yield with every extension of s under which pat matches
// the class id.
func matchClass(g *egraph.EGraph, pat term.Term, id egraph.ID, s Subst, yield func(Subst)) {
	if pat.IsLeaf() && IsVar(pat.Op) {
		if bound, ok := s.Get(pat.Op); ok {
			if g.Find(bound) == id {
				yield(s)
			}
			return
		}
		yield(s.With(pat.Op, id))
		return
	}

	class := g.Class(id)
	for _, n := range class.Nodes {
		if n.Op != pat.Op || len(n.Children) != len(pat.Children) {
			continue
		}
		matchChildren(g, pat.Children, n.Children, s, yield)
	}
}

func matchChildren(g *egraph.EGraph, pats []term.Term, ids []egraph.ID, s Subst, yield func(Subst)) {
	if len(pats) == 0 {
		yield(s)
		return
	}
	matchClass(g, pats[0], g.Find(ids[0]), s, func(next Subst) {
		matchChildren(g, pats[1:], ids[1:], next, yield)
	})
}

// instantiate adds p under s to g. With uncanonical set it returns the id
// of the exact e-node built, as needed for explanations.
func (p *Pattern) instantiate(g *egraph.EGraph, s Subst, uncanonical bool) egraph.ID {
	return instantiate(g, p.ast, s, uncanonical)
}

func instantiate(g *egraph.EGraph, pat term.Term, s Subst, uncanonical bool) egraph.ID {
	if pat.IsLeaf() && IsVar(pat.Op) {
		id, ok := s.Get(pat.Op)
		if !ok {
			panic(fmt.Sprintf("rewrite: variable %s is unbound", pat.Op))
		}
		return id
	}
	children := make([]egraph.ID, len(pat.Children))
	for i, c := range pat.Children {
		children[i] = instantiate(g, c, s, uncanonical)
	}
	n := egraph.ENode{Op: pat.Op, Children: children}
	if uncanonical {
		return g.AddUncanonical(n)
	}
	return g.Add(n)
}

// lookup finds the class of p under s without adding anything.
func (p *Pattern) lookup(g *egraph.EGraph, s Subst) (egraph.ID, bool) {
	return lookup(g, p.ast, s)
}

func lookup(g *egraph.EGraph, pat term.Term, s Subst) (egraph.ID, bool) {
	if pat.IsLeaf() && IsVar(pat.Op) {
		id, ok := s.Get(pat.Op)
		if !ok {
			return 0, false
		}
		return g.Find(id), true
	}
	children := make([]egraph.ID, len(pat.Children))
	for i, c := range pat.Children {
		id, ok := lookup(g, c, s)
		if !ok {
			return 0, false
		}
		children[i] = id
	}
	return g.Lookup(egraph.ENode{Op: pat.Op, Children: children})
}

// ApplyOne makes p an Applier: it instantiates p under s and unions it
// with the match. With explanations enabled the lhs instantiation is added
// too, so the union records exactly which terms the rule rewrote.
func (p *Pattern) ApplyOne(g *egraph.EGraph, class egraph.ID, s Subst, lhs *Pattern, rule string) bool {
	if g.ExplanationsEnabled() && lhs != nil {
		from := lhs.instantiate(g, s, true)
		to := p.instantiate(g, s, true)
		return g.Union(from, to, egraph.ByRule(rule))
	}
	to := p.instantiate(g, s, false)
	return g.Union(class, to, egraph.ByRule(rule))
}
