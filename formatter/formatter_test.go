package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/runner"
	"github.com/gnolang/tsat/internal/session"
	"github.com/gnolang/tsat/internal/term"
)

func TestFormatComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    session.Comparison
		expected string
	}{
		{
			name:  "simplified",
			input: session.Comparison{InitialExpr: "(* x 1)", InitialCost: 3, FinalExpr: "x", FinalCost: 1},
			expected: `simplified: (* x 1)
 --> x
  = cost 3 -> 1
`,
		},
		{
			name:  "fractional weights",
			input: session.Comparison{InitialExpr: "(f a)", InitialCost: 2.5, FinalExpr: "(f a)", FinalCost: 2.5},
			expected: `simplified: (f a)
 --> (f a)
  = cost 2.5 -> 2.5
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatComparison(tt.input))
		})
	}
}

func TestFormatComparisons(t *testing.T) {
	t.Parallel()

	out := FormatComparisons("a.sexp", []session.Comparison{
		{InitialExpr: "(+ 1 2)", InitialCost: 3, FinalExpr: "3", FinalCost: 1},
		{InitialExpr: "y", InitialCost: 1, FinalExpr: "y", FinalCost: 1},
	})
	expected := `a.sexp
simplified: (+ 1 2)
 --> 3
  = cost 3 -> 1

simplified: y
 --> y
  = cost 1 -> 1

`
	assert.Equal(t, expected, out)
	assert.NotContains(t, FormatComparisons("", nil), "\n")
}

func TestFormatExplanation(t *testing.T) {
	t.Parallel()

	exp := &egraph.Explanation{
		Terms: []term.Term{
			term.MustParse("(+ x (* y 1))"),
			term.MustParse("(+ x y)"),
			term.MustParse("(+ y x)"),
		},
		Steps: []egraph.Step{
			{Rule: "mul-one", Path: []int{1}, Sub: term.Leaf("y")},
			{Rule: "comm-add", Backward: true, Sub: term.MustParse("(+ y x)")},
		},
	}

	expected := `proved: (+ x (* y 1)) = (+ y x)
  |
0 | (+ x (* y 1))
1 | (+ x y)        by mul-one
2 | (+ y x)        by comm-add (reversed)
  |
`
	assert.Equal(t, expected, FormatExplanation(exp.Terms[0], exp.Terms[2], exp))
}

func TestFormatExplanationAnalysisStep(t *testing.T) {
	t.Parallel()

	g := egraph.New(egraph.WithExplanations())
	a := g.AddTerm(term.MustParse("(+ 1 2)"))
	b := g.AddTerm(term.Leaf("3"))
	g.Union(a, b, egraph.ByAnalysis("constant-fold"))
	g.Rebuild()

	exp, err := g.ExplainIDs(a, b)
	require.NoError(t, err)
	out := FormatExplanation(term.MustParse("(+ 1 2)"), term.Leaf("3"), exp)
	assert.Contains(t, out, "1 | 3")
	assert.Contains(t, out, "by analysis constant-fold")
}

func TestFormatNotProven(t *testing.T) {
	t.Parallel()

	out := FormatNotProven(term.MustParse("(+ x y)"), term.MustParse("(* x y)"), runner.Saturated, 2)
	assert.Equal(t, "not proven: (+ x y) = (* x y)\n  = stopped: saturated after 2 iterations\n", out)
}
