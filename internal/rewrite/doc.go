// Package rewrite provides patterns over e-graphs, e-matching, and rewrite
// rules built from a searcher pattern and an applier.
//
// A pattern is a term whose leaves may be variables, written with a leading
// '?' (for example ?a). Matching a pattern against an e-class yields
// substitutions from variables to e-class ids. Rules are directed: the lhs
// is searched for and the applier is run for every match. A two-way
// identity is two rules, or one definition marked bidirectional.
package rewrite
