package directive

import (
	"strconv"

	"github.com/goliatone/go-guigen/pkg/diag"
)

// LitKind classifies a literal argument.
type LitKind int

const (
	LitString LitKind = iota
	LitInt
	LitFloat
	LitWord
)

func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitInt:
		return "integer"
	case LitFloat:
		return "float"
	case LitWord:
		return "word"
	default:
		return "unknown"
	}
}

// ParseLitKind maps a catalogue name back to a LitKind.
func ParseLitKind(name string) (LitKind, bool) {
	switch name {
	case "string", "str":
		return LitString, true
	case "integer", "int":
		return LitInt, true
	case "float":
		return LitFloat, true
	case "word", "ident":
		return LitWord, true
	}
	return 0, false
}

// Literal is a parameter value. Raw keeps the source spelling (sign
// included) for numbers and words; Str holds the unescaped string value.
type Literal struct {
	Kind  LitKind
	Raw   string
	Str   string
	Int   int64
	Float float64
	Pos   diag.Pos
}

// GoExpr renders the literal as a Go expression.
func (l Literal) GoExpr() string {
	switch l.Kind {
	case LitString:
		return strconv.Quote(l.Str)
	default:
		return l.Raw
	}
}

// AsFloat returns the numeric value of an integer or float literal.
func (l Literal) AsFloat() (float64, bool) {
	switch l.Kind {
	case LitInt:
		return float64(l.Int), true
	case LitFloat:
		return l.Float, true
	}
	return 0, false
}

// Pair is one name = literal argument.
type Pair struct {
	Name    string
	NamePos diag.Pos
	Value   Literal
}

// Node is a parsed directive.
type Node interface {
	Position() diag.Pos
	directiveNode()
}

// Empty is the bare directive with no payload.
type Empty struct {
	Pos diag.Pos
}

// Word is a bare widget kind, e.g. `drag`.
type Word struct {
	Name string
	Pos  diag.Pos
}

// Pairs is a payload of top-level arguments with no kind, e.g. `label = "x"`.
type Pairs struct {
	Pairs []Pair
	Pos   diag.Pos
}

// Call is a widget kind with a parenthesized argument list.
type Call struct {
	Name  string
	Pos   diag.Pos
	Pairs []Pair
}

func (n *Empty) Position() diag.Pos { return n.Pos }
func (n *Word) Position() diag.Pos  { return n.Pos }
func (n *Pairs) Position() diag.Pos { return n.Pos }
func (n *Call) Position() diag.Pos  { return n.Pos }

func (*Empty) directiveNode() {}
func (*Word) directiveNode()  {}
func (*Pairs) directiveNode() {}
func (*Call) directiveNode()  {}
