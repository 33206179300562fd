package constfold

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/term"
)

func newGraph(opts ...egraph.Option) *egraph.EGraph {
	return egraph.New(append(opts, egraph.WithAnalysis(New()))...)
}

func TestFolding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string // "" means no constant
	}{
		{input: "(+ 1 2)", want: "3"},
		{input: "(* (+ 1 2) (- 10 4))", want: "18"},
		{input: "(/ 1 2)", want: "1/2"},
		{input: "(/ 0.5 2)", want: "1/4"},
		{input: "(- 5)", want: "-5"},
		{input: "(- 2 7)", want: "-5"},
		{input: "(/ 1 0)"},
		{input: "(+ x 1)"},
		{input: "(f 1 2)"},
		{input: "(+ 1 2 3)"},
		{input: "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			g := newGraph()
			id := g.AddTerm(term.MustParse(tt.input))
			g.Rebuild()
			require.NoError(t, g.CheckInvariants())

			v := ValueOf(g, id)
			if tt.want == "" {
				assert.Equal(t, Unknown, v.Kind)
				return
			}
			require.Equal(t, Constant, v.Kind)
			assert.Equal(t, tt.want, v.String())

			leaf, ok := g.LookupTerm(term.Leaf(tt.want))
			require.True(t, ok, "folded literal must be added")
			assert.Equal(t, g.Find(id), g.Find(leaf))
		})
	}
}

func TestFoldingEnablesCongruence(t *testing.T) {
	t.Parallel()

	g := newGraph()
	a := g.AddTerm(term.MustParse("(f (+ 1 2))"))
	b := g.AddTerm(term.MustParse("(f 3)"))
	g.Rebuild()

	assert.Equal(t, g.Find(a), g.Find(b))
}

func TestMergePropagatesConstants(t *testing.T) {
	t.Parallel()

	g := newGraph()
	x := g.AddTerm(term.Leaf("x"))
	sum := g.AddTerm(term.MustParse("(+ x 1)"))
	g.Rebuild()
	require.Equal(t, Unknown, ValueOf(g, sum).Kind)

	two := g.AddTerm(term.Leaf("2"))
	g.Union(x, two, egraph.ByRule("x=2"))
	g.Rebuild()

	v := ValueOf(g, sum)
	require.Equal(t, Constant, v.Kind)
	assert.Equal(t, "3", v.String())
	require.NoError(t, g.CheckInvariants())
}

func TestConflict(t *testing.T) {
	t.Parallel()

	g := newGraph()
	one := g.AddTerm(term.Leaf("1"))
	two := g.AddTerm(term.Leaf("2"))
	g.Union(one, two, egraph.ByRule("bogus"))
	g.Rebuild()

	assert.Equal(t, Conflict, ValueOf(g, one).Kind)
}

func TestFoldingIsExplained(t *testing.T) {
	t.Parallel()

	g := newGraph(egraph.WithExplanations())
	g.AddTerm(term.MustParse("(+ 1 2)"))
	g.AddTerm(term.Leaf("3"))
	g.Rebuild()

	exp, err := g.ExplainEquivalence(term.MustParse("(+ 1 2)"), term.Leaf("3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"(+ 1 2)", "(Rewrite=> constant-fold 3)"}, exp.FlatStrings())
	require.Len(t, exp.Steps, 1)
	assert.True(t, exp.Steps[0].Analysis)
}

func TestJoin(t *testing.T) {
	t.Parallel()

	one := Const(big.NewRat(1, 1))
	alsoOne := Const(big.NewRat(2, 2))
	two := Const(big.NewRat(2, 1))
	unknown := Value{}
	conflict := Value{Kind: Conflict}

	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"unknown is bottom", unknown, one, one},
		{"unknown on the right", two, unknown, two},
		{"equal constants", one, alsoOne, one},
		{"different constants", one, two, conflict},
		{"conflict is top", conflict, one, conflict},
		{"unknown with unknown", unknown, unknown, unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, Equal(tt.want, Join(tt.a, tt.b)), "got %s", Join(tt.a, tt.b))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"0", "42", "-3", "1/2", "0.25", "+7"} {
		_, parsed := Parse(ok)
		assert.True(t, parsed, ok)
	}
	for _, bad := range []string{"", "x", "-", "+", "?a", "1/0", "abc1"} {
		_, parsed := Parse(bad)
		assert.False(t, parsed, bad)
	}
}
