package egraph

import (
	"fmt"
	"strconv"
	"strings"
)

// ENode is an operator applied to e-classes.
type ENode struct {
	Op       string
	Children []ID
}

// NewENode returns an e-node for op over children.
func NewENode(op string, children ...ID) ENode {
	return ENode{Op: op, Children: children}
}

// IsLeaf reports whether n has no children.
func (n ENode) IsLeaf() bool { return len(n.Children) == 0 }

func (n ENode) String() string {
	if n.IsLeaf() {
		return n.Op
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = fmt.Sprintf("#%d", c)
	}
	return "(" + n.Op + " " + strings.Join(parts, " ") + ")"
}

// key is the hashcons key of n. Operators never contain NUL, so the
// encoding is unambiguous.
func (n ENode) key() string {
	if n.IsLeaf() {
		return n.Op
	}
	var sb strings.Builder
	sb.Grow(len(n.Op) + 4*len(n.Children))
	sb.WriteString(n.Op)
	for _, c := range n.Children {
		sb.WriteByte(0)
		sb.WriteString(strconv.Itoa(int(c)))
	}
	return sb.String()
}

// mapChildren returns a copy of n with every child replaced by f(child).
func (n ENode) mapChildren(f func(ID) ID) ENode {
	if n.IsLeaf() {
		return n
	}
	children := make([]ID, len(n.Children))
	for i, c := range n.Children {
		children[i] = f(c)
	}
	return ENode{Op: n.Op, Children: children}
}

// compareNodes orders e-nodes by operator, then arity, then children.
func compareNodes(a, b ENode) int {
	if c := strings.Compare(a.Op, b.Op); c != 0 {
		return c
	}
	if len(a.Children) != len(b.Children) {
		if len(a.Children) < len(b.Children) {
			return -1
		}
		return 1
	}
	for i := range a.Children {
		if a.Children[i] != b.Children[i] {
			if a.Children[i] < b.Children[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
