package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/term"
)

func searchApply(g *egraph.EGraph, r *Rewrite) int {
	n := r.Apply(g, r.Search(g, 0))
	g.Rebuild()
	return n
}

func TestRewriteApply(t *testing.T) {
	t.Parallel()

	for _, explain := range []bool{false, true} {
		explain := explain
		name := "plain"
		if explain {
			name = "explanations"
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var opts []egraph.Option
			if explain {
				opts = append(opts, egraph.WithExplanations())
			}
			g := egraph.New(opts...)
			root := g.AddTerm(term.MustParse("(+ a b)"))

			comm := MustNew("comm", "(+ ?x ?y)", "(+ ?y ?x)")
			assert.Equal(t, 1, searchApply(g, comm))

			swapped, ok := g.LookupTerm(term.MustParse("(+ b a)"))
			require.True(t, ok)
			assert.Equal(t, g.Find(root), g.Find(swapped))

			assert.Equal(t, 0, searchApply(g, comm), "second pass adds nothing new")
			require.NoError(t, g.CheckInvariants())
		})
	}
}

func TestRewriteSearchIsReadOnly(t *testing.T) {
	t.Parallel()

	g := egraph.New()
	g.AddTerm(term.MustParse("(* (+ a b) c)"))
	size := g.TotalSize()

	MustNew("comm", "(+ ?x ?y)", "(+ ?y ?x)").Search(g, 0)
	assert.Equal(t, size, g.TotalSize())
	assert.True(t, g.Clean())
}

func TestConditionalApplier(t *testing.T) {
	t.Parallel()

	g := egraph.New()
	xx := g.AddTerm(term.MustParse("(/ x x)"))
	zz := g.AddTerm(term.MustParse("(/ 0 0)"))

	div, err := New("div-self", MustParsePattern("(/ ?a ?a)"), &ConditionalApplier{
		Condition: ConditionNotEqual(MustParsePattern("?a"), MustParsePattern("0")),
		Applier:   MustParsePattern("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, searchApply(g, div))

	one, ok := g.LookupTerm(term.Leaf("1"))
	require.True(t, ok)
	assert.Equal(t, g.Find(one), g.Find(xx))
	assert.NotEqual(t, g.Find(one), g.Find(zz))

	rhs, ok := div.RHS()
	require.True(t, ok)
	assert.Equal(t, "1", rhs.String())
}

func TestConditionEqual(t *testing.T) {
	t.Parallel()

	g := egraph.New()
	g.AddTerm(term.MustParse("(f a b)"))
	a, _ := g.LookupTerm(term.Leaf("a"))
	b, _ := g.LookupTerm(term.Leaf("b"))

	s := Subst{}.With("?x", a).With("?y", b)
	cond := ConditionEqual(MustParsePattern("?x"), MustParsePattern("?y"))
	assert.False(t, cond.Check(g, a, s))

	g.Union(a, b, egraph.ByRule("ab"))
	g.Rebuild()
	assert.True(t, cond.Check(g, a, s))

	missing := ConditionEqual(MustParsePattern("(g ?x)"), MustParsePattern("?y"))
	assert.False(t, missing.Check(g, a, s), "absent terms are never equal")
}

func TestNewRejectsUnboundVariables(t *testing.T) {
	t.Parallel()

	_, err := New("r", MustParsePattern("(f ?a)"), MustParsePattern("(g ?b)"))
	assert.ErrorContains(t, err, "?b")

	_, err = New("", MustParsePattern("a"), MustParsePattern("b"))
	assert.Error(t, err)
}
