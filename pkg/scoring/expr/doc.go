// Package expr implements the logic expression language used by grid fields.
//
// An expression decides whether an applicant qualifies for a field. The
// grammar, as stored in grid definitions:
//
//	expression := chain ("OR" chain)*
//	chain      := clause (";" clause)*
//	clause     := operand
//	            | operand compare operand
//	            | operand "IN" list
//	            | operand "NOT IN" list
//	compare    := "==" | "!=" | ">=" | "<=" | ">" | "<"
//	list       := "(" operand ("," operand)* ")"
//	operand    := identifier | number | quoted string
//
// Clauses within a chain are combined left to right using a separate operator
// list carried on the field ("AND;OR", one entry per semicolon); the last
// operator is reused when the list runs short and anything unrecognized means
// AND. Top-level OR alternatives short-circuit nothing: every alternative is
// evaluated so the explanation trace is complete.
//
// Evaluation never returns an error. Unparseable expressions, unknown
// variables in bare or left-hand positions, and type-mismatched comparisons
// all evaluate to false, with the reason recorded in the explanation trace.
// Numeric comparison happens in float64 with a small tolerance; string
// equality is case-insensitive.
package expr
