package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// numericTolerance absorbs floating point noise in == and != comparisons.
const numericTolerance = 0.000001

// Variables maps variable names to their resolved values. Values are scalars:
// string, bool, int, or float64; a missing key means the applicant did not
// provide the attribute.
type Variables map[string]any

// Result is the outcome of evaluating one expression. The explanation records
// every resolved value and sub-result so a field decision can be audited.
type Result struct {
	Value       bool
	Explanation string
}

// Evaluate parses and evaluates an expression against the variable map.
// It never returns an error: unparseable expressions evaluate to false with
// the parse failure in the explanation.
//
// combineOperator joins the expression's semicolon-separated clauses
// ("AND", "OR", or a semicolon-separated list of them, one per junction).
// An empty or unrecognized operator means AND; the last operator is reused
// when the list is shorter than the clause count.
func Evaluate(expression string, vars Variables, combineOperator string) Result {
	parsed, err := Parse(expression)
	if err != nil {
		if pe, ok := err.(*ParseError); ok && pe.Reason == "expression is empty" {
			return Result{Value: false, Explanation: "expression is empty"}
		}
		return Result{Value: false, Explanation: fmt.Sprintf("expression could not be parsed: %v", err)}
	}
	return EvaluateExpr(parsed, vars, combineOperator)
}

// EvaluateExpr evaluates an already parsed expression. Every OR alternative
// is evaluated even after one succeeds, so the explanation is complete.
func EvaluateExpr(e *Expr, vars Variables, combineOperator string) Result {
	if len(e.Alternatives) == 1 {
		return evalChain(e.Alternatives[0], vars, combineOperator)
	}

	value := false
	var b strings.Builder
	b.WriteString("OR condition: ")
	for i, chain := range e.Alternatives {
		r := evalChain(chain, vars, combineOperator)
		if i > 0 {
			b.WriteString(" OR ")
		}
		fmt.Fprintf(&b, "(%s)", r.Explanation)
		if r.Value {
			value = true
		}
	}
	fmt.Fprintf(&b, " => %t", value)
	return Result{Value: value, Explanation: b.String()}
}

// evalChain combines a chain's clauses left to right using the operator list.
func evalChain(c *Chain, vars Variables, combineOperator string) Result {
	first := evalClause(c.Clauses[0], vars)
	if len(c.Clauses) == 1 {
		return first
	}

	operators := splitOperators(combineOperator)

	value := first.Value
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)", first.Explanation)
	for i := 1; i < len(c.Clauses); i++ {
		op := operators[len(operators)-1]
		if i-1 < len(operators) {
			op = operators[i-1]
		}
		r := evalClause(c.Clauses[i], vars)
		fmt.Fprintf(&b, " %s (%s)", op, r.Explanation)

		if op == "OR" {
			value = value || r.Value
		} else {
			// Anything unrecognized combines as AND
			value = value && r.Value
		}
	}
	fmt.Fprintf(&b, " => %t", value)
	return Result{Value: value, Explanation: b.String()}
}

// splitOperators normalizes the field's operator list; never empty.
func splitOperators(combineOperator string) []string {
	combineOperator = strings.TrimSpace(combineOperator)
	if combineOperator == "" {
		return []string{"AND"}
	}
	parts := strings.Split(combineOperator, ";")
	operators := make([]string, len(parts))
	for i, p := range parts {
		operators[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	return operators
}

func evalClause(c Clause, vars Variables) Result {
	switch clause := c.(type) {
	case *Comparison:
		return evalComparison(clause, vars)
	case *Membership:
		return evalMembership(clause, vars)
	case *Truthy:
		return evalTruthy(clause, vars)
	default:
		return Result{Value: false, Explanation: "unknown clause"}
	}
}

func evalTruthy(c *Truthy, vars Variables) Result {
	value := c.Operand.resolve(vars, false)
	if value == nil {
		return Result{
			Value:       false,
			Explanation: fmt.Sprintf("variable '%s' was not found", c.Operand.Raw),
		}
	}
	result := isTruthy(value)
	return Result{
		Value:       result,
		Explanation: fmt.Sprintf("variable '%s' is %s (truthy: %t)", c.Operand.Raw, formatValue(value), result),
	}
}

func evalComparison(c *Comparison, vars Variables) Result {
	left := c.Left.resolve(vars, false)
	right := c.Right.resolve(vars, true)

	prefix := fmt.Sprintf("'%s' (%s) %s '%s'", c.Left.Raw, formatValue(left), c.Op, formatValue(right))

	// A nil left side only supports equality against nil.
	if left == nil {
		var result bool
		switch c.Op {
		case "==":
			result = right == nil
		case "!=":
			result = right != nil
		}
		return Result{Value: result, Explanation: fmt.Sprintf("%s => %t", prefix, result)}
	}

	if leftNum, ok := numericValue(left); ok {
		if rightNum, ok := numericValue(right); ok {
			var result bool
			switch c.Op {
			case "==":
				result = abs(leftNum-rightNum) < numericTolerance
			case "!=":
				result = abs(leftNum-rightNum) >= numericTolerance
			case ">":
				result = leftNum > rightNum
			case "<":
				result = leftNum < rightNum
			case ">=":
				result = leftNum >= rightNum
			case "<=":
				result = leftNum <= rightNum
			}
			return Result{Value: result, Explanation: fmt.Sprintf("%s => %t", prefix, result)}
		}
	}

	// Strings only support equality; ordering on strings means a grid
	// authoring mistake and fails the clause.
	leftStr := formatValue(left)
	rightStr := formatValue(right)
	switch c.Op {
	case "==":
		result := strings.EqualFold(leftStr, rightStr)
		return Result{Value: result, Explanation: fmt.Sprintf("%s => %t", prefix, result)}
	case "!=":
		result := !strings.EqualFold(leftStr, rightStr)
		return Result{Value: result, Explanation: fmt.Sprintf("%s => %t", prefix, result)}
	default:
		return Result{
			Value:       false,
			Explanation: fmt.Sprintf("%s (unsupported operator for string comparison) => false", prefix),
		}
	}
}

func evalMembership(c *Membership, vars Variables) Result {
	value := c.Left.resolve(vars, false)

	operator := "IN"
	if c.Negated {
		operator = "NOT IN"
	}

	inList := false
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' (%s) %s (", c.Left.Raw, formatValue(value), operator)
	for i, item := range c.Items {
		itemValue := item.resolve(vars, true)
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(itemValue))
		if valuesEqual(value, itemValue) {
			inList = true
		}
	}
	result := inList != c.Negated
	fmt.Fprintf(&b, ") => %t", result)
	return Result{Value: result, Explanation: b.String()}
}

// resolve produces an operand's runtime value. Identifiers resolve through the
// variable map; on the right side of a comparison and in membership lists an
// unknown identifier falls back to its own text, so bare words act as string
// literals.
func (o Operand) resolve(vars Variables, literalFallback bool) any {
	switch o.Kind {
	case OperandVariable:
		if v, ok := vars[o.Name]; ok {
			return v
		}
		if literalFallback {
			return o.Name
		}
		return nil
	case OperandNumber:
		return o.Number
	case OperandString:
		return o.Text
	default:
		return nil
	}
}

// rawNumber reports values that are numbers by type, not numeric strings.
func rawNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// numericValue additionally accepts strings that parse as numbers.
func numericValue(v any) (float64, bool) {
	if n, ok := rawNumber(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// valuesEqual is membership equality: tolerant for numbers, case-insensitive
// for strings, strict otherwise.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if aNum, ok := rawNumber(a); ok {
		if bNum, ok := rawNumber(b); ok {
			return abs(aNum-bNum) < numericTolerance
		}
	}
	if aStr, ok := a.(string); ok {
		if bStr, ok := b.(string); ok {
			return strings.EqualFold(aStr, bStr)
		}
	}
	return a == b
}

func isTruthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	default:
		if n, ok := rawNumber(v); ok {
			return n != 0
		}
		return true
	}
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
