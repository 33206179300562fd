package egraph

// Analysis attaches a value to every e-class and keeps it consistent as
// classes are created and merged. It is the extension point for semantic
// knowledge about operators, such as constant folding; the e-graph itself
// never interprets operators.
type Analysis interface {
	// Make computes the value of a freshly added e-node whose children are
	// canonical.
	Make(g *EGraph, n ENode) any
	// Merge joins two class values. changedA and changedB report whether
	// the result differs from a and b respectively.
	Merge(a, b any) (merged any, changedA, changedB bool)
	// Modify may add e-nodes to or union the class id after its value
	// changed. It must be idempotent.
	Modify(g *EGraph, id ID)
}
