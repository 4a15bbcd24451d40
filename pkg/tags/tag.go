// Package tags turns parsed directives into typed widget tags and checks
// them against the declared type of the field they annotate.
package tags

import (
	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

// Value is the state of one declared parameter after resolution.
type Value struct {
	Param widgets.ParamSpec
	// Set is false for an optional parameter the directive left out.
	Set bool
	// Defaulted marks a value taken from the parameter's declared default.
	Defaulted bool
	Lit       directive.Literal
}

// Tag is the resolved form of one field's directive. Values holds one entry
// per parameter declared by Kind, in declaration order.
type Tag struct {
	Kind   *widgets.Kind
	Label  string
	Values []Value
	Pos    diag.Pos
}

// Value returns the resolved value of the named parameter.
func (t Tag) Value(name string) (Value, bool) {
	for _, v := range t.Values {
		if v.Param.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// KindName returns the name of the tag's widget kind.
func (t Tag) KindName() string {
	if t.Kind == nil {
		return ""
	}
	return t.Kind.Name
}
