package rewrite

import (
	"strconv"
	"strings"

	"github.com/gnolang/tsat/internal/egraph"
)

type binding struct {
	v  string
	id egraph.ID
}

// Subst maps pattern variables to e-class ids. The zero value is empty.
// Substs are persistent: With returns a new value and leaves the receiver
// untouched, so a partial substitution can be shared by backtracking
// branches.
type Subst struct {
	bindings []binding
}

// Get returns the class bound to v.
func (s Subst) Get(v string) (egraph.ID, bool) {
	for _, b := range s.bindings {
		if b.v == v {
			return b.id, true
		}
	}
	return 0, false
}

// With returns s extended with v bound to id.
func (s Subst) With(v string, id egraph.ID) Subst {
	bindings := make([]binding, len(s.bindings), len(s.bindings)+1)
	copy(bindings, s.bindings)
	return Subst{bindings: append(bindings, binding{v: v, id: id})}
}

// Len is the number of bound variables.
func (s Subst) Len() int { return len(s.bindings) }

func (s Subst) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, b := range s.bindings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.v)
		sb.WriteString(": #")
		sb.WriteString(strconv.Itoa(int(b.id)))
	}
	sb.WriteByte('}')
	return sb.String()
}
