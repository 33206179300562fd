package constfold

import (
	"math/big"
)

// Kind is the position of a value in the constant lattice.
type Kind int

const (
	Unknown  Kind = iota // no constant known
	Constant             // exactly one constant
	Conflict             // two different constants were merged
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Constant:
		return "Constant"
	case Conflict:
		return "Conflict"
	default:
		return "Invalid"
	}
}

// Value is the analysis data of an e-class.
type Value struct {
	Kind Kind
	// Rat is set when Kind is Constant.
	Rat *big.Rat
}

// Const returns the Constant value r.
func Const(r *big.Rat) Value { return Value{Kind: Constant, Rat: r} }

// Equal reports whether a and b are the same lattice element.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Constant {
		return a.Rat.Cmp(b.Rat) == 0
	}
	return true
}

// Join returns the least upper bound: Unknown is the bottom, Conflict the
// top, and two Constants join to themselves when equal.
func Join(a, b Value) Value {
	if a.Kind == Unknown {
		return b
	}
	if b.Kind == Unknown {
		return a
	}
	if a.Kind == Conflict || b.Kind == Conflict {
		return Value{Kind: Conflict}
	}
	if a.Rat.Cmp(b.Rat) == 0 {
		return a
	}
	return Value{Kind: Conflict}
}

func (v Value) String() string {
	if v.Kind == Constant {
		return v.Rat.RatString()
	}
	return v.Kind.String()
}
