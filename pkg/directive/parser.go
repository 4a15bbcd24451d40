package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/schema"
)

// Parse parses the directives attached to one field. No directives yields a
// nil node; more than one is reported at the second occurrence.
func Parse(directives []schema.Directive) (Node, error) {
	switch len(directives) {
	case 0:
		return nil, nil
	case 1:
		return ParseText(directives[0].Text, directives[0].Pos)
	default:
		return nil, diag.Errorf(diag.MultipleDirectives, directives[1].Pos,
			"multiple widget directives on one field (%d found)", len(directives))
	}
}

// ParseText parses one directive payload. base is the position of the first
// character of text; every node and diagnostic position is derived from it.
// All failures are returned as *diag.Error with kind SyntaxError.
func ParseText(text string, base diag.Pos) (Node, error) {
	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		if lexErr, ok := err.(*LexError); ok {
			return nil, diag.New(diag.SyntaxError, at(base, lexErr.Tok), lexErr.Message)
		}
		return nil, diag.New(diag.SyntaxError, base, err.Error())
	}
	p := &parser{tokens: tokens, base: base}
	return p.parse()
}

type parser struct {
	tokens []Token
	pos    int
	base   diag.Pos
}

func at(base diag.Pos, tok Token) diag.Pos {
	return base.Advance(tok.Line, tok.Col, tok.Pos)
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return diag.Errorf(diag.SyntaxError, at(p.base, tok), format, args...)
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return tok.Type.String()
	case TokenString:
		return fmt.Sprintf("string %q", tok.Literal)
	case TokenIdent, TokenInt, TokenFloat:
		return fmt.Sprintf("%s '%s'", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

func (p *parser) parse() (Node, error) {
	first := p.current()
	switch first.Type {
	case TokenEOF:
		return &Empty{Pos: p.base}, nil
	case TokenIdent:
	default:
		return nil, p.errorf(first, "expected widget kind or parameter, found %s", describe(first))
	}

	switch next := p.peek(); next.Type {
	case TokenEOF:
		p.advance()
		return &Word{Name: first.Literal, Pos: at(p.base, first)}, nil
	case TokenLParen:
		return p.parseCall()
	case TokenEQ:
		pairs, err := p.parsePairs(TokenEOF)
		if err != nil {
			return nil, err
		}
		return &Pairs{Pairs: pairs, Pos: at(p.base, first)}, nil
	default:
		return nil, p.errorf(next, "unexpected %s after '%s'", describe(next), first.Literal)
	}
}

func (p *parser) parseCall() (Node, error) {
	name := p.advance()
	p.advance() // (

	pairs, err := p.parsePairs(TokenRParen)
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenRParen {
		return nil, p.errorf(tok, "expected ')' to close '%s(', found %s", name.Literal, describe(tok))
	}
	p.advance()

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s after ')'", describe(tok))
	}
	return &Call{Name: name.Literal, Pos: at(p.base, name), Pairs: pairs}, nil
}

// parsePairs reads `pair (',' pair)* [',']` until the closing token, which
// is left unconsumed.
func (p *parser) parsePairs(closing TokenType) ([]Pair, error) {
	var pairs []Pair
	for p.current().Type != closing {
		pair, err := p.parsePair()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)

		tok := p.current()
		if tok.Type == TokenComma {
			p.advance()
			continue
		}
		if tok.Type != closing {
			if closing == TokenEOF {
				return nil, p.errorf(tok, "expected ',' or %s, found %s", TokenEOF, describe(tok))
			}
			return nil, p.errorf(tok, "expected ',' or ')', found %s", describe(tok))
		}
	}
	return pairs, nil
}

func (p *parser) parsePair() (Pair, error) {
	name := p.current()
	if name.Type != TokenIdent {
		return Pair{}, p.errorf(name, "expected parameter name, found %s", describe(name))
	}
	if strings.Contains(name.Literal, ".") {
		return Pair{}, p.errorf(name, "invalid parameter name '%s'", name.Literal)
	}
	p.advance()

	if eq := p.current(); eq.Type != TokenEQ {
		return Pair{}, p.errorf(eq, "expected '=' after parameter '%s', found %s", name.Literal, describe(eq))
	}
	p.advance()

	value, err := p.parseLiteral()
	if err != nil {
		return Pair{}, err
	}
	return Pair{Name: name.Literal, NamePos: at(p.base, name), Value: value}, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	tok := p.current()
	switch tok.Type {
	case TokenString:
		p.advance()
		return Literal{Kind: LitString, Raw: tok.Literal, Str: tok.Literal, Pos: at(p.base, tok)}, nil
	case TokenIdent:
		p.advance()
		if next := p.current(); next.Type == TokenLParen {
			return Literal{}, p.errorf(next, "nested call '%s(' is not allowed as a parameter value", tok.Literal)
		}
		return Literal{Kind: LitWord, Raw: tok.Literal, Pos: at(p.base, tok)}, nil
	case TokenInt, TokenFloat:
		p.advance()
		return p.number(tok, "", at(p.base, tok))
	case TokenMinus:
		p.advance()
		num := p.current()
		if num.Type != TokenInt && num.Type != TokenFloat {
			return Literal{}, p.errorf(num, "expected number after '-', found %s", describe(num))
		}
		p.advance()
		return p.number(num, "-", at(p.base, tok))
	case TokenLParen:
		return Literal{}, p.errorf(tok, "nested argument lists are not allowed")
	default:
		return Literal{}, p.errorf(tok, "expected literal value, found %s", describe(tok))
	}
}

func (p *parser) number(tok Token, sign string, pos diag.Pos) (Literal, error) {
	raw := sign + tok.Literal
	if tok.Type == TokenInt {
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return Literal{}, p.errorf(tok, "invalid integer '%s'", raw)
		}
		return Literal{Kind: LitInt, Raw: raw, Int: v, Pos: pos}, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		return Literal{}, p.errorf(tok, "invalid float '%s'", raw)
	}
	return Literal{Kind: LitFloat, Raw: raw, Float: v, Pos: pos}, nil
}

// ParseLiteral parses a standalone literal such as a catalogue default.
func ParseLiteral(text string, base diag.Pos) (Literal, error) {
	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		if lexErr, ok := err.(*LexError); ok {
			return Literal{}, diag.New(diag.SyntaxError, at(base, lexErr.Tok), lexErr.Message)
		}
		return Literal{}, diag.New(diag.SyntaxError, base, err.Error())
	}
	p := &parser{tokens: tokens, base: base}
	lit, err := p.parseLiteral()
	if err != nil {
		return Literal{}, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return Literal{}, p.errorf(tok, "unexpected %s after literal", describe(tok))
	}
	return lit, nil
}
