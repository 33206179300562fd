package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/rewrite"
	"github.com/gnolang/tsat/internal/term"
)

func fiveClasses() *egraph.EGraph {
	g := egraph.New()
	g.AddTerm(term.MustParse("(f (g a) b)"))
	g.AddTerm(term.Leaf("c"))
	return g
}

func TestBackoffSchedulerBans(t *testing.T) {
	t.Parallel()

	g := fiveClasses()
	require.Equal(t, 5, g.NumClasses())
	rule := rewrite.MustNew("wrap", "?x", "(h ?x)")

	s := NewBackoffScheduler().WithMatchLimit(2).WithBanLength(3)
	s.Init([]*rewrite.Rewrite{rule})

	assert.Nil(t, s.Search(0, 0, rule, g), "3 matches exceed a limit of 2")
	assert.True(t, s.Banned(1, 0))
	assert.True(t, s.Banned(2, 0))
	assert.False(t, s.Banned(3, 0))

	// a pass without unions fast-forwards the ban instead of saturating
	assert.False(t, s.CanStop(1))
	assert.False(t, s.Banned(2, 0))

	// the threshold doubled to 4 but five classes still match
	assert.Nil(t, s.Search(2, 0, rule, g))
	assert.True(t, s.Banned(7, 0))
	assert.False(t, s.Banned(8, 0))
}

func TestBackoffSchedulerAllowsSmallRules(t *testing.T) {
	t.Parallel()

	g := fiveClasses()
	rule := rewrite.MustNew("wrap", "?x", "(h ?x)")

	s := NewBackoffScheduler().WithMatchLimit(10)
	s.Init([]*rewrite.Rewrite{rule})

	matches := s.Search(0, 0, rule, g)
	assert.Len(t, matches, 5)
	assert.False(t, s.Banned(1, 0))
	assert.True(t, s.CanStop(0))
}

func TestSimpleScheduler(t *testing.T) {
	t.Parallel()

	g := fiveClasses()
	rule := rewrite.MustNew("wrap", "?x", "(h ?x)")

	var s SimpleScheduler
	s.Init([]*rewrite.Rewrite{rule})
	assert.Len(t, s.Search(0, 0, rule, g), 5)
	assert.True(t, s.CanStop(0))
}
