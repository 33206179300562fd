// Package egraph implements an e-graph: a union-find over equivalence classes
// of e-nodes plus a hashcons table that keeps the graph closed under
// congruence.
//
// Classes live in an arena addressed by ID. Merging two classes is an index
// rewrite in the union-find table, never a pointer mutation, so cyclic
// equivalences such as a = a*1 = (a*1)*1 need no special handling.
//
// Mutations (Add, Union) may leave the graph temporarily non-congruent.
// Rebuild restores the invariant and must run before the graph is searched,
// extracted from or explained.
//
// When created with WithExplanations, every union records why it happened
// (a named rule, congruence, or an analysis), and ExplainEquivalence turns
// that provenance into a chain of single rewrite steps between two terms.
package egraph
