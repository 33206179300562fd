// Package constfold is an e-class analysis that evaluates arithmetic over
// rational literals and adds the result to the class as a literal leaf.
//
// It folds the binary operators + - * / and unary -. Leaves that parse as
// rationals ("3", "-2", "1/2", "0.25") are constants; every other leaf is
// unknown. Division by zero is left unfolded.
package constfold

import (
	"math/big"

	"github.com/gnolang/tsat/internal/egraph"
)

// Name is the justification recorded for unions made by the analysis.
const Name = "constant-fold"

// Analysis implements egraph.Analysis.
type Analysis struct{}

var _ egraph.Analysis = Analysis{}

// New returns the constant folding analysis.
func New() Analysis { return Analysis{} }

// Parse returns the constant denoted by a leaf operator.
func Parse(op string) (*big.Rat, bool) {
	if op == "" {
		return nil, false
	}
	switch c := op[0]; {
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
	default:
		return nil, false
	}
	r, ok := new(big.Rat).SetString(op)
	return r, ok
}

func (Analysis) Make(g *egraph.EGraph, n egraph.ENode) any {
	if n.IsLeaf() {
		if r, ok := Parse(n.Op); ok {
			return Const(r)
		}
		return Value{}
	}

	args := make([]*big.Rat, len(n.Children))
	for i, c := range n.Children {
		v, _ := g.Class(c).Data.(Value)
		if v.Kind != Constant {
			return Value{}
		}
		args[i] = v.Rat
	}

	if r, ok := eval(n.Op, args); ok {
		return Const(r)
	}
	return Value{}
}

func eval(op string, args []*big.Rat) (*big.Rat, bool) {
	if len(args) == 1 && op == "-" {
		return new(big.Rat).Neg(args[0]), true
	}
	if len(args) != 2 {
		return nil, false
	}
	a, b := args[0], args[1]
	switch op {
	case "+":
		return new(big.Rat).Add(a, b), true
	case "-":
		return new(big.Rat).Sub(a, b), true
	case "*":
		return new(big.Rat).Mul(a, b), true
	case "/":
		if b.Sign() == 0 {
			return nil, false
		}
		return new(big.Rat).Quo(a, b), true
	default:
		return nil, false
	}
}

func (Analysis) Merge(a, b any) (any, bool, bool) {
	va, _ := a.(Value)
	vb, _ := b.(Value)
	joined := Join(va, vb)
	return joined, !Equal(joined, va), !Equal(joined, vb)
}

// Modify adds the constant of a folded class as a leaf and unions it in.
func (Analysis) Modify(g *egraph.EGraph, id egraph.ID) {
	v, _ := g.Class(id).Data.(Value)
	if v.Kind != Constant {
		return
	}
	leaf := g.Add(egraph.NewENode(v.Rat.RatString()))
	g.Union(id, leaf, egraph.ByAnalysis(Name))
}

// ValueOf returns the analysis value of the class id.
func ValueOf(g *egraph.EGraph, id egraph.ID) Value {
	v, _ := g.Class(id).Data.(Value)
	return v
}
