package expr

// OperandKind discriminates the three operand forms.
type OperandKind int

const (
	// OperandVariable is an identifier looked up in the variable map.
	OperandVariable OperandKind = iota
	// OperandNumber is a numeric literal.
	OperandNumber
	// OperandString is a quoted string literal.
	OperandString
)

// Operand is a leaf of the expression tree. Raw preserves the source text for
// explanation traces.
type Operand struct {
	Kind   OperandKind
	Name   string
	Number float64
	Text   string
	Raw    string
}

// Clause is one condition within a chain.
type Clause interface {
	clause()
}

// Comparison compares two operands with ==, !=, >, <, >=, or <=.
type Comparison struct {
	Left  Operand
	Op    string
	Right Operand
}

// Membership tests whether an operand's value appears in a list.
type Membership struct {
	Left    Operand
	Items   []Operand
	Negated bool
}

// Truthy is a bare operand tested for truthiness: non-nil, non-zero,
// non-empty.
type Truthy struct {
	Operand Operand
}

func (*Comparison) clause() {}
func (*Membership) clause() {}
func (*Truthy) clause()     {}

// Chain is a sequence of clauses combined left to right by the field's
// operator list.
type Chain struct {
	Clauses []Clause
}

// Expr is a parsed expression: one or more chains joined by OR.
type Expr struct {
	Alternatives []*Chain
}
