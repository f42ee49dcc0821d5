package expr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenNumber
	tokenString
	tokenCompare
	tokenIn
	tokenNotIn
	tokenOr
	tokenSemicolon
	tokenComma
	tokenLeftParen
	tokenRightParen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Keywords are uppercase only; lowercase "in" or "or" stays an identifier so
// variable names are never shadowed.
const (
	keywordIn  = "IN"
	keywordNot = "NOT"
	keywordOr  = "OR"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Hyphens continue a word so unquoted enum literals such as
// bachelors-degree lex as one token. A '-' only starts a token when it
// introduces a negative number.
func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits an expression into tokens. It merges "NOT IN" into a single
// token; a "NOT" without a following "IN" is an ordinary identifier.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == ';':
			tokens = append(tokens, token{tokenSemicolon, ";", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLeftParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRightParen, ")", i})
			i++

		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenCompare, "==", i})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected '=' at position %d", i)
			}
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenCompare, "!=", i})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected '!' at position %d", i)
			}
		case c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenCompare, ">=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokenCompare, ">", i})
				i++
			}
		case c == '<':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenCompare, "<=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokenCompare, "<", i})
				i++
			}

		case c == '\'' || c == '"':
			end := strings.IndexByte(input[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string at position %d", i)
			}
			tokens = append(tokens, token{tokenString, input[i+1 : i+1+end], i})
			i += end + 2

		case isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])):
			start := i
			i++
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, input[start:i], start})

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			word := input[start:i]
			switch word {
			case keywordOr:
				tokens = append(tokens, token{tokenOr, word, start})
			case keywordIn:
				tokens = append(tokens, token{tokenIn, word, start})
			case keywordNot:
				j := i
				for j < len(input) && (input[j] == ' ' || input[j] == '\t') {
					j++
				}
				if strings.HasPrefix(input[j:], keywordIn) &&
					(j+len(keywordIn) == len(input) || !isIdentPart(input[j+len(keywordIn)])) {
					tokens = append(tokens, token{tokenNotIn, "NOT IN", start})
					i = j + len(keywordIn)
				} else {
					tokens = append(tokens, token{tokenIdent, word, start})
				}
			default:
				tokens = append(tokens, token{tokenIdent, word, start})
			}

		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}
