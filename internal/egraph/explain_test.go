package egraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsat/internal/term"
)

func unionTerms(t *testing.T, g *EGraph, lhs, rhs, rule string) {
	t.Helper()
	l := g.AddTermUncanonical(term.MustParse(lhs))
	r := g.AddTermUncanonical(term.MustParse(rhs))
	g.Union(l, r, ByRule(rule))
	g.Rebuild()
}

func TestExplainEquivalence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(t *testing.T, g *EGraph)
		left   string
		right  string
		expect []string
	}{
		{
			name: "same term",
			setup: func(t *testing.T, g *EGraph) {
				g.AddTerm(term.MustParse("(+ a b)"))
			},
			left:   "(+ a b)",
			right:  "(+ a b)",
			expect: []string{"(+ a b)"},
		},
		{
			name: "single forward step",
			setup: func(t *testing.T, g *EGraph) {
				unionTerms(t, g, "(* a 1)", "a", "mul-one")
			},
			left:   "(* a 1)",
			right:  "a",
			expect: []string{"(* a 1)", "(Rewrite=> mul-one a)"},
		},
		{
			name: "single backward step",
			setup: func(t *testing.T, g *EGraph) {
				unionTerms(t, g, "(* a 1)", "a", "mul-one")
			},
			left:   "a",
			right:  "(* a 1)",
			expect: []string{"a", "(Rewrite<= mul-one (* a 1))"},
		},
		{
			name: "chain",
			setup: func(t *testing.T, g *EGraph) {
				unionTerms(t, g, "a", "b", "r1")
				unionTerms(t, g, "b", "c", "r2")
			},
			left:   "a",
			right:  "c",
			expect: []string{"a", "(Rewrite=> r1 b)", "(Rewrite=> r2 c)"},
		},
		{
			name: "reversed chain",
			setup: func(t *testing.T, g *EGraph) {
				unionTerms(t, g, "a", "b", "r1")
				unionTerms(t, g, "b", "c", "r2")
			},
			left:   "c",
			right:  "a",
			expect: []string{"c", "(Rewrite<= r2 b)", "(Rewrite<= r1 a)"},
		},
		{
			name: "congruence lifts the step",
			setup: func(t *testing.T, g *EGraph) {
				g.AddTerm(term.MustParse("(f (* a 1))"))
				g.AddTerm(term.MustParse("(f a)"))
				unionTerms(t, g, "(* a 1)", "a", "mul-one")
			},
			left:   "(f (* a 1))",
			right:  "(f a)",
			expect: []string{"(f (* a 1))", "(f (Rewrite=> mul-one a))"},
		},
		{
			name: "congruence over two children",
			setup: func(t *testing.T, g *EGraph) {
				g.AddTerm(term.MustParse("(g a c)"))
				g.AddTerm(term.MustParse("(g b d)"))
				unionTerms(t, g, "a", "b", "ab")
				unionTerms(t, g, "d", "c", "dc")
			},
			left:   "(g a c)",
			right:  "(g b d)",
			expect: []string{"(g a c)", "(g (Rewrite=> ab b) c)", "(g b (Rewrite<= dc d))"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New(WithExplanations())
			tt.setup(t, g)

			exp, err := g.ExplainEquivalence(term.MustParse(tt.left), term.MustParse(tt.right))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, exp.FlatStrings())
			assert.Equal(t, len(tt.expect)-1, exp.Len())
			assert.True(t, exp.Terms[0].Equal(term.MustParse(tt.left)))
			assert.True(t, exp.Terms[len(exp.Terms)-1].Equal(term.MustParse(tt.right)))
		})
	}
}

func TestExplainErrors(t *testing.T) {
	t.Parallel()

	plain := New()
	plain.AddTerm(term.Leaf("a"))
	_, err := plain.ExplainEquivalence(term.Leaf("a"), term.Leaf("a"))
	assert.ErrorIs(t, err, ErrExplanationsDisabled)

	g := New(WithExplanations())
	g.AddTerm(term.Leaf("a"))
	g.AddTerm(term.Leaf("b"))
	_, err = g.ExplainEquivalence(term.Leaf("a"), term.Leaf("b"))
	assert.ErrorIs(t, err, ErrNotEquivalent)
}

func TestExplanationsKeepRawNodes(t *testing.T) {
	t.Parallel()

	g := New(WithExplanations())
	unionTerms(t, g, "a", "b", "ab")

	// (f b) is congruent to an existing node but keeps its own id
	fa := g.AddTermUncanonical(term.MustParse("(f a)"))
	fb := g.AddTermUncanonical(term.MustParse("(f b)"))
	assert.NotEqual(t, fa, fb)
	assert.Equal(t, g.Find(fa), g.Find(fb))
	assert.Equal(t, 2, g.NumClasses())
	assert.True(t, g.Clean())

	exp, err := g.ExplainIDs(fb, fa)
	require.NoError(t, err)
	assert.Equal(t, []string{"(f b)", "(f (Rewrite<= ab a))"}, exp.FlatStrings())
}
