package egraph

// EClass is an equivalence class of e-nodes.
type EClass struct {
	ID    ID
	Nodes []ENode
	// Data is the analysis value of the class, nil without an analysis.
	Data any

	parents []parent
}

// parent records that node, added as id, has this class as a child.
type parent struct {
	node ENode
	id   ID
}

// Len is the number of e-nodes in the class.
func (c *EClass) Len() int { return len(c.Nodes) }

// NumParents is the number of parent back-references of the class.
func (c *EClass) NumParents() int { return len(c.parents) }

// Leaves returns the 0-ary e-nodes of the class.
func (c *EClass) Leaves() []ENode {
	var leaves []ENode
	for _, n := range c.Nodes {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}
