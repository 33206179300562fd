package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermString(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"a", "(f a)", "(+ (* a b) (^-1 (^-1 c)))"} {
		parsed := MustParse(input)
		assert.Equal(t, input, parsed.String())
	}
}

func TestTermMetrics(t *testing.T) {
	t.Parallel()
	tm := MustParse("(+ a (* b (- c)))")
	assert.Equal(t, 6, tm.Size())
	assert.Equal(t, 4, tm.Depth())
	assert.False(t, tm.IsLeaf())
	assert.True(t, Leaf("x").IsLeaf())
}

func TestTermEqual(t *testing.T) {
	t.Parallel()
	assert.True(t, MustParse("(f a b)").Equal(New("f", Leaf("a"), Leaf("b"))))
	assert.False(t, MustParse("(f a b)").Equal(MustParse("(f b a)")))
	assert.False(t, MustParse("(f a)").Equal(MustParse("(f a a)")))
	assert.False(t, MustParse("(f a)").Equal(MustParse("(g a)")))
}

func TestTermAtAndReplace(t *testing.T) {
	t.Parallel()
	orig := MustParse("(+ a (* b c))")

	sub, ok := orig.At([]int{1, 0})
	require.True(t, ok)
	assert.Equal(t, "b", sub.String())

	_, ok = orig.At([]int{2})
	assert.False(t, ok)

	replaced, ok := orig.Replace([]int{1, 0}, MustParse("(^-1 d)"))
	require.True(t, ok)
	assert.Equal(t, "(+ a (* (^-1 d) c))", replaced.String())
	assert.Equal(t, "(+ a (* b c))", orig.String(), "receiver must not change")

	root, ok := orig.Replace(nil, Leaf("z"))
	require.True(t, ok)
	assert.Equal(t, "z", root.String())

	_, ok = orig.Replace([]int{0, 0}, Leaf("z"))
	assert.False(t, ok)
}

func TestTermWalk(t *testing.T) {
	t.Parallel()
	var ops []string
	var paths [][]int
	MustParse("(f (g a) b)").Walk(func(path []int, sub Term) bool {
		ops = append(ops, sub.Op)
		paths = append(paths, path)
		return sub.Op != "g"
	})
	assert.Equal(t, []string{"f", "g", "b"}, ops)
	assert.Equal(t, [][]int{nil, {0}, {1}}, paths)
}
