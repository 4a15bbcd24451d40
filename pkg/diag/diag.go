// Package diag defines the located diagnostics produced while compiling
// widget directives. Every diagnostic is fatal to the schema being compiled.
package diag

import (
	"errors"
	"fmt"
)

// Kind classifies a diagnostic.
type Kind int

const (
	KindUnknown Kind = iota
	SyntaxError
	MultipleDirectives
	UnsupportedWidgetKind
	UnrecognizedParameter
	ParameterAlreadySet
	MissingRequiredParameter
	LiteralKindMismatch
	TypeIncompatible
	IndexOutOfRange
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case MultipleDirectives:
		return "MultipleDirectives"
	case UnsupportedWidgetKind:
		return "UnsupportedWidgetKind"
	case UnrecognizedParameter:
		return "UnrecognizedParameter"
	case ParameterAlreadySet:
		return "ParameterAlreadySet"
	case MissingRequiredParameter:
		return "MissingRequiredParameter"
	case LiteralKindMismatch:
		return "LiteralKindMismatch"
	case TypeIncompatible:
		return "TypeIncompatible"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	default:
		return "Unknown"
	}
}

// Pos is a source coordinate. Line and Col are 1-based; a zero Line means the
// position is unknown.
type Pos struct {
	File   string
	Line   int
	Col    int
	Offset int
}

// IsValid reports whether the position carries a line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Advance returns the position reached after moving line-1 lines and col-1
// columns from p. Columns only accumulate on the first line.
func (p Pos) Advance(line, col, offset int) Pos {
	out := p
	out.Offset += offset
	if line > 1 {
		out.Line += line - 1
		out.Col = col
		return out
	}
	out.Col += col - 1
	return out
}

func (p Pos) String() string {
	switch {
	case p.File != "" && p.IsValid():
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	case p.IsValid():
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	case p.File != "":
		return p.File
	default:
		return "-"
	}
}

// Error is a single located diagnostic.
type Error struct {
	Kind       Kind
	Pos        Pos
	Msg        string
	Suggestion string // "did you mean 'slider'?" or ""
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// New builds a diagnostic.
func New(kind Kind, pos Pos, msg string) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: msg}
}

// Errorf builds a diagnostic with a formatted message.
func Errorf(kind Kind, pos Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// WithSuggestion returns a copy of e carrying the suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	out := *e
	out.Suggestion = s
	return &out
}

// As extracts the diagnostic wrapped in err.
func As(err error) (*Error, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// KindOf returns the kind of the diagnostic wrapped in err, or KindUnknown.
func KindOf(err error) Kind {
	if d, ok := As(err); ok {
		return d.Kind
	}
	return KindUnknown
}
