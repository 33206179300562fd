/*
Package term implements the symbolic expression model shared by the e-graph,
the rewrite rules and the wire protocol.

# Grammar

Expressions and patterns use parenthesized prefix notation:

	term   := symbol | "(" symbol term* ")"
	symbol := any run of characters other than whitespace, "(" and ")"

A bare symbol is a 0-ary operator (a constant or a variable name). Pattern
variables are ordinary symbols by this grammar; the rewrite package decides
which symbols are variables (by convention they start with '?').

# Usage

	t, err := term.Parse("(+ a (* b 1))")
	if err != nil {
		// err is a *term.ParseError carrying the offending position
	}
	fmt.Println(t.Op, len(t.Children)) // + 2
	fmt.Println(t)                     // (+ a (* b 1))

Terms are values: every method that "changes" a term returns a new one and
leaves the receiver untouched.
*/
package term
