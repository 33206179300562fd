package rewrite

import (
	"fmt"
	"slices"

	"github.com/gnolang/tsat/internal/egraph"
)

// Applier acts on one match of a rule's lhs. ApplyOne reports whether it
// merged two previously distinct classes.
type Applier interface {
	ApplyOne(g *egraph.EGraph, class egraph.ID, s Subst, lhs *Pattern, rule string) bool
}

// Rewrite is a named, directed rule.
type Rewrite struct {
	Name    string
	LHS     *Pattern
	Applier Applier
}

// New builds a rewrite from lhs to rhs. Every variable of rhs must occur
// in lhs.
func New(name string, lhs *Pattern, rhs Applier) (*Rewrite, error) {
	if name == "" {
		return nil, fmt.Errorf("rewrite name is empty")
	}
	if p := patternOf(rhs); p != nil {
		for _, v := range p.Vars() {
			if !slices.Contains(lhs.Vars(), v) {
				return nil, fmt.Errorf("rhs variable %s is not bound by the lhs", v)
			}
		}
	}
	return &Rewrite{Name: name, LHS: lhs, Applier: rhs}, nil
}

// MustNew is New that panics on error.
func MustNew(name, lhs, rhs string) *Rewrite {
	r, err := New(name, MustParsePattern(lhs), MustParsePattern(rhs))
	if err != nil {
		panic(err)
	}
	return r
}

// Search finds the matches of the lhs. See Pattern.Search for limit.
func (r *Rewrite) Search(g *egraph.EGraph, limit int) []SearchMatches {
	return r.LHS.Search(g, limit)
}

// Apply runs the applier on every match and returns the number of unions
// that merged distinct classes. The graph must be rebuilt afterwards.
func (r *Rewrite) Apply(g *egraph.EGraph, matches []SearchMatches) int {
	n := 0
	for _, m := range matches {
		for _, s := range m.Substs {
			if r.Applier.ApplyOne(g, m.EClass, s, r.LHS, r.Name) {
				n++
			}
		}
	}
	return n
}

func (r *Rewrite) String() string {
	if p := patternOf(r.Applier); p != nil {
		return fmt.Sprintf("%s: %s => %s", r.Name, r.LHS, p)
	}
	return fmt.Sprintf("%s: %s => <applier>", r.Name, r.LHS)
}

// RHS returns the pattern the rule rewrites to, if its applier has one.
func (r *Rewrite) RHS() (*Pattern, bool) {
	p := patternOf(r.Applier)
	return p, p != nil
}

func patternOf(a Applier) *Pattern {
	switch a := a.(type) {
	case *Pattern:
		return a
	case *ConditionalApplier:
		return patternOf(a.Applier)
	default:
		return nil
	}
}

// Condition decides whether a match may be applied. It must not modify g.
type Condition interface {
	Check(g *egraph.EGraph, class egraph.ID, s Subst) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(g *egraph.EGraph, class egraph.ID, s Subst) bool

func (f ConditionFunc) Check(g *egraph.EGraph, class egraph.ID, s Subst) bool {
	return f(g, class, s)
}

// ConditionalApplier runs Applier only for matches satisfying Condition.
type ConditionalApplier struct {
	Condition Condition
	Applier   Applier
}

func (c *ConditionalApplier) ApplyOne(g *egraph.EGraph, class egraph.ID, s Subst, lhs *Pattern, rule string) bool {
	if !c.Condition.Check(g, class, s) {
		return false
	}
	return c.Applier.ApplyOne(g, class, s, lhs, rule)
}

// ConditionEqual holds when a and b instantiated under the match are
// already in the same class.
func ConditionEqual(a, b *Pattern) Condition {
	return ConditionFunc(func(g *egraph.EGraph, _ egraph.ID, s Subst) bool {
		ia, ok := a.lookup(g, s)
		if !ok {
			return false
		}
		ib, ok := b.lookup(g, s)
		return ok && ia == ib
	})
}

// ConditionNotEqual holds unless a and b instantiated under the match are
// known to be equal.
func ConditionNotEqual(a, b *Pattern) Condition {
	eq := ConditionEqual(a, b)
	return ConditionFunc(func(g *egraph.EGraph, class egraph.ID, s Subst) bool {
		return !eq.Check(g, class, s)
	})
}
