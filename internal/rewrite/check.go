package rewrite

import (
	"fmt"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/term"
)

// StepError locates the first explanation step that does not check.
type StepError struct {
	Index int
	Step  egraph.Step
	Msg   string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Index+1, e.Step.Rule, e.Msg)
}

// CheckExplanation re-derives every step of exp using only the named rules.
// Each step must rewrite exactly the subterm at its path, and the rewritten
// subterm must be an instance of the rule's lhs whose rhs instance is the
// result (or the other way round for backward steps). Steps made by an
// analysis are only checked for shape.
func CheckExplanation(rules []*Rewrite, exp *egraph.Explanation) error {
	byName := make(map[string]*Rewrite, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}
	if len(exp.Terms) != len(exp.Steps)+1 {
		return fmt.Errorf("explanation has %d terms for %d steps", len(exp.Terms), len(exp.Steps))
	}

	for i, step := range exp.Steps {
		from, to := exp.Terms[i], exp.Terms[i+1]
		fail := func(format string, args ...any) error {
			return &StepError{Index: i, Step: step, Msg: fmt.Sprintf(format, args...)}
		}

		before, ok := from.At(step.Path)
		if !ok {
			return fail("path %v does not exist in %s", step.Path, from)
		}
		after, ok := to.At(step.Path)
		if !ok {
			return fail("path %v does not exist in %s", step.Path, to)
		}
		if replaced, _ := from.Replace(step.Path, after); !replaced.Equal(to) {
			return fail("%s and %s differ outside %v", from, to, step.Path)
		}
		if step.Analysis {
			continue
		}

		r, ok := byName[step.Rule]
		if !ok {
			return fail("unknown rule")
		}
		rhs, ok := r.RHS()
		if !ok {
			return fail("rule has no pattern to check against")
		}
		src, dst := before, after
		if step.Backward {
			src, dst = after, before
		}
		bindings, ok := MatchTerm(r.LHS, src)
		if !ok {
			return fail("%s is not an instance of %s", src, r.LHS)
		}
		got, err := Instantiate(rhs, bindings)
		if err != nil {
			return fail("%v", err)
		}
		if !got.Equal(dst) {
			return fail("rewriting %s gives %s, not %s", src, got, dst)
		}
	}
	return nil
}

// MatchTerm matches p against a concrete term and returns the bindings of
// its variables.
func MatchTerm(p *Pattern, t term.Term) (map[string]term.Term, bool) {
	bindings := make(map[string]term.Term)
	if !matchTerm(p.ast, t, bindings) {
		return nil, false
	}
	return bindings, true
}

func matchTerm(pat, t term.Term, bindings map[string]term.Term) bool {
	if pat.IsLeaf() && IsVar(pat.Op) {
		if bound, ok := bindings[pat.Op]; ok {
			return bound.Equal(t)
		}
		bindings[pat.Op] = t
		return true
	}
	if pat.Op != t.Op || len(pat.Children) != len(t.Children) {
		return false
	}
	for i := range pat.Children {
		if !matchTerm(pat.Children[i], t.Children[i], bindings) {
			return false
		}
	}
	return true
}

// Instantiate replaces the variables of p with their bindings.
func Instantiate(p *Pattern, bindings map[string]term.Term) (term.Term, error) {
	return instantiateTerm(p.ast, bindings)
}

func instantiateTerm(pat term.Term, bindings map[string]term.Term) (term.Term, error) {
	if pat.IsLeaf() && IsVar(pat.Op) {
		t, ok := bindings[pat.Op]
		if !ok {
			return term.Term{}, fmt.Errorf("variable %s is unbound", pat.Op)
		}
		return t, nil
	}
	if pat.IsLeaf() {
		return pat, nil
	}
	children := make([]term.Term, len(pat.Children))
	for i, c := range pat.Children {
		child, err := instantiateTerm(c, bindings)
		if err != nil {
			return term.Term{}, err
		}
		children[i] = child
	}
	return term.New(pat.Op, children...), nil
}
