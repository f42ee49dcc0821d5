package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports why an expression could not be parsed. Evaluation treats
// it as a non-qualifying result rather than a failure of the whole run.
type ParseError struct {
	Expression string
	Position   int
	Reason     string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid expression %q at position %d: %s", e.Expression, e.Position, e.Reason)
}

// Parse builds the expression tree for a grid field expression.
func Parse(expression string) (*Expr, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &ParseError{Expression: expression, Position: 0, Reason: "expression is empty"}
	}

	tokens, err := lex(expression)
	if err != nil {
		return nil, &ParseError{Expression: expression, Position: 0, Reason: err.Error()}
	}

	p := &parser{expression: expression, tokens: tokens}
	parsed, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return parsed, nil
}

type parser struct {
	expression string
	tokens     []token
	pos        int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		Expression: p.expression,
		Position:   p.peek().pos,
		Reason:     fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseExpr() (*Expr, error) {
	first, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	e := &Expr{Alternatives: []*Chain{first}}
	for p.peek().kind == tokenOr {
		p.next()
		alt, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		e.Alternatives = append(e.Alternatives, alt)
	}
	return e, nil
}

func (p *parser) parseChain() (*Chain, error) {
	first, err := p.parseClause()
	if err != nil {
		return nil, err
	}
	c := &Chain{Clauses: []Clause{first}}
	for p.peek().kind == tokenSemicolon {
		p.next()
		clause, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		c.Clauses = append(c.Clauses, clause)
	}
	return c, nil
}

func (p *parser) parseClause() (Clause, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch t := p.peek(); t.kind {
	case tokenCompare:
		p.next()
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Op: t.text, Right: right}, nil

	case tokenIn, tokenNotIn:
		p.next()
		items, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return &Membership{Left: left, Items: items, Negated: t.kind == tokenNotIn}, nil

	default:
		return &Truthy{Operand: left}, nil
	}
}

func (p *parser) parseList() ([]Operand, error) {
	if p.peek().kind != tokenLeftParen {
		return nil, p.errorf("expected '(' after IN, got %q", p.peek().text)
	}
	p.next()

	var items []Operand
	for {
		item, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		switch p.peek().kind {
		case tokenComma:
			p.next()
		case tokenRightParen:
			p.next()
			return items, nil
		default:
			return nil, p.errorf("expected ',' or ')' in list, got %q", p.peek().text)
		}
	}
}

func (p *parser) parseOperand() (Operand, error) {
	switch t := p.peek(); t.kind {
	case tokenIdent:
		p.next()
		return Operand{Kind: OperandVariable, Name: t.text, Raw: t.text}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Operand{}, p.errorf("invalid number %q", t.text)
		}
		p.next()
		return Operand{Kind: OperandNumber, Number: n, Raw: t.text}, nil
	case tokenString:
		p.next()
		return Operand{Kind: OperandString, Text: t.text, Raw: t.text}, nil
	default:
		return Operand{}, p.errorf("expected operand, got %q", t.text)
	}
}
