package egraph

// ID identifies an e-class. With explanations enabled it also identifies the
// exact e-node a term was added as, which proofs are built from.
type ID int

// unionFind keeps parent links in a flat slice indexed by ID.
type unionFind struct {
	parents []ID
}

func (u *unionFind) makeSet() ID {
	id := ID(len(u.parents))
	u.parents = append(u.parents, id)
	return id
}

func (u *unionFind) size() int { return len(u.parents) }

// find walks to the root without modifying the table, so concurrent
// readers are safe.
func (u *unionFind) find(id ID) ID {
	for u.parents[id] != id {
		id = u.parents[id]
	}
	return id
}

// findMut is find with path halving.
func (u *unionFind) findMut(id ID) ID {
	for u.parents[id] != id {
		grand := u.parents[u.parents[id]]
		u.parents[id] = grand
		id = grand
	}
	return id
}

// union makes root1 the parent of root2. Both must be roots.
func (u *unionFind) union(root1, root2 ID) ID {
	u.parents[root2] = root1
	return root1
}
