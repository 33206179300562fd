package term

import "strings"

// Term is an operator symbol applied to an ordered list of child terms.
type Term struct {
	Op       string
	Children []Term
}

// Leaf returns a 0-ary term.
func Leaf(op string) Term {
	return Term{Op: op}
}

// New returns the application of op to children.
func New(op string, children ...Term) Term {
	return Term{Op: op, Children: children}
}

// IsLeaf reports whether t has no children.
func (t Term) IsLeaf() bool { return len(t.Children) == 0 }

// String renders t in prefix notation. Parse(t.String()) yields a term equal to t.
func (t Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t Term) write(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Op)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Op)
	for _, c := range t.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// Equal reports structural equality.
func (t Term) Equal(other Term) bool {
	if t.Op != other.Op || len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Size is the number of operator occurrences in t.
func (t Term) Size() int {
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Depth is the length of the longest root-to-leaf path, counting nodes.
func (t Term) Depth() int {
	d := 0
	for _, c := range t.Children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// At returns the subterm reached by following the child indices in path.
func (t Term) At(path []int) (Term, bool) {
	cur := t
	for _, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return Term{}, false
		}
		cur = cur.Children[i]
	}
	return cur, true
}

// Replace returns a copy of t where the subterm at path is sub.
// Only the spine along path is copied; other subterms are shared.
func (t Term) Replace(path []int, sub Term) (Term, bool) {
	if len(path) == 0 {
		return sub, true
	}
	i := path[0]
	if i < 0 || i >= len(t.Children) {
		return Term{}, false
	}
	child, ok := t.Children[i].Replace(path[1:], sub)
	if !ok {
		return Term{}, false
	}
	children := make([]Term, len(t.Children))
	copy(children, t.Children)
	children[i] = child
	return Term{Op: t.Op, Children: children}, true
}

// Walk calls fn for every subterm of t in pre-order together with its path.
// Returning false from fn skips the subterm's children.
func (t Term) Walk(fn func(path []int, sub Term) bool) {
	t.walk(nil, fn)
}

func (t Term) walk(path []int, fn func([]int, Term) bool) {
	if !fn(path, t) {
		return
	}
	for i, c := range t.Children {
		p := make([]int, len(path)+1)
		copy(p, path)
		p[len(path)] = i
		c.walk(p, fn)
	}
}
