package extract

import (
	"math"

	"github.com/gnolang/tsat/internal/term"
)

// CostFunction prices an e-node given the best known costs of its children.
// Costs must be non-negative and monotone in every child cost. An infinite
// child cost means the child has no finite term yet.
type CostFunction interface {
	Cost(op string, children []float64) float64
}

// CostFunc adapts a function to CostFunction.
type CostFunc func(op string, children []float64) float64

func (f CostFunc) Cost(op string, children []float64) float64 { return f(op, children) }

// AstSize counts operators: 1 plus the sum of the children.
type AstSize struct{}

func (AstSize) Cost(_ string, children []float64) float64 {
	return 1 + sum(children)
}

// AstDepth is 1 plus the deepest child.
type AstDepth struct{}

func (AstDepth) Cost(_ string, children []float64) float64 {
	deepest := 0.0
	for _, c := range children {
		deepest = math.Max(deepest, c)
	}
	return 1 + deepest
}

// Weighted charges a per-operator weight plus the children. Operators
// without a weight cost Default. Negative weights count as zero.
type Weighted struct {
	Weights map[string]float64
	Default float64
}

func (w Weighted) Cost(op string, children []float64) float64 {
	cost, ok := w.Weights[op]
	if !ok {
		cost = w.Default
	}
	return math.Max(cost, 0) + sum(children)
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

// TermCost prices a concrete term with cf.
func TermCost(cf CostFunction, t term.Term) float64 {
	children := make([]float64, len(t.Children))
	for i, c := range t.Children {
		children[i] = TermCost(cf, c)
	}
	return cf.Cost(t.Op, children)
}
