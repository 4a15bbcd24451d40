// Package widgets holds the catalogue of widget kinds a directive may name.
// Each kind declares its parameter schema, the field categories it accepts,
// the toolkit operation it binds to and the result type of that operation.
package widgets

import (
	"fmt"
	"go/token"
	"math"
	"strings"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
)

// LabelParam is accepted by every kind and defaults to the field name.
const LabelParam = "label"

// ParamSpec declares one directive parameter of a kind.
type ParamSpec struct {
	// Name is the directive key, e.g. "step_fast".
	Name string `json:"name" yaml:"name"`
	// Field is the member of the toolkit parameter struct, e.g. "StepFast".
	Field string `json:"field" yaml:"field"`
	// GoType is the Go type of the member (float32, int32, int, string...).
	GoType string `json:"type" yaml:"type"`
	// Kinds lists the accepted literal kinds; the first one is reported as
	// the expected kind on mismatch. Derived from GoType when empty.
	Kinds    []directive.LitKind `json:"-" yaml:"-"`
	Required bool                `json:"required,omitempty" yaml:"required,omitempty"`
	// Default is a literal in directive syntax applied when the parameter is
	// omitted. A parameter with a default is always emitted as a plain value.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// Index marks an index into the bound array field: literals are checked
	// against the array length, words become a run-time precondition.
	Index bool   `json:"index,omitempty" yaml:"index,omitempty"`
	Doc   string `json:"description,omitempty" yaml:"description,omitempty"`

	defaultLit *directive.Literal
}

// Optional reports whether the parameter is emitted as an option value.
func (p ParamSpec) Optional() bool {
	return !p.Required && p.Default == ""
}

// Expected returns the literal kind named in mismatch diagnostics.
func (p ParamSpec) Expected() directive.LitKind {
	if len(p.Kinds) == 0 {
		return directive.LitString
	}
	return p.Kinds[0]
}

// Accepts reports whether a literal of kind k may be assigned.
func (p ParamSpec) Accepts(k directive.LitKind) bool {
	for _, candidate := range p.Kinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// DefaultLiteral returns the parsed default value, if any.
func (p ParamSpec) DefaultLiteral() (directive.Literal, bool) {
	if p.defaultLit == nil {
		return directive.Literal{}, false
	}
	return *p.defaultLit, true
}

// Fits reports whether a numeric literal is representable in GoType. Words
// and strings always fit.
func (p ParamSpec) Fits(lit directive.Literal) error {
	switch lit.Kind {
	case directive.LitInt:
		lo, hi, isInt := intRange(p.GoType)
		if isInt {
			if lit.Int < lo || lit.Int > hi {
				return fmt.Errorf("value %s overflows %s", lit.Raw, p.GoType)
			}
			return nil
		}
		if p.GoType == "float32" && math.Abs(float64(lit.Int)) > math.MaxFloat32 {
			return fmt.Errorf("value %s overflows float32", lit.Raw)
		}
	case directive.LitFloat:
		if p.GoType == "float32" && math.Abs(lit.Float) > math.MaxFloat32 {
			return fmt.Errorf("value %s overflows float32", lit.Raw)
		}
	}
	return nil
}

// Result describes the value returned by the toolkit operation.
type Result struct {
	// Type is the Go type; when Toolkit is set it is qualified with the
	// toolkit package name on emission (Selection -> widget.Selection).
	Type string `json:"type" yaml:"type"`
	// Default is the "no interaction" value assigned by the events
	// constructor, qualified like Type.
	Default string `json:"default" yaml:"default"`
	Toolkit bool   `json:"toolkit,omitempty" yaml:"toolkit,omitempty"`
	Doc     string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Kind is one entry of the widget catalogue.
type Kind struct {
	Name string `json:"name" yaml:"name"`
	// Build is the toolkit function invoked by the binding.
	Build string `json:"build" yaml:"build"`
	// ParamsType is the toolkit parameter struct passed to Build.
	ParamsType string            `json:"params_type" yaml:"params_type"`
	Params     []ParamSpec       `json:"params,omitempty" yaml:"params,omitempty"`
	Accepts    []schema.Category `json:"-" yaml:"-"`
	// Operand pins the exact Go type the build operation receives (element
	// type for arrays). Empty means the operation takes any value.
	Operand string `json:"operand,omitempty" yaml:"operand,omitempty"`
	Result  Result `json:"result" yaml:"result"`
	// Template overrides the binding statement template for this kind.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Doc      string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Param looks up a declared parameter by directive key.
func (k *Kind) Param(name string) (ParamSpec, int, bool) {
	for idx, param := range k.Params {
		if param.Name == name {
			return param, idx, true
		}
	}
	return ParamSpec{}, -1, false
}

// ParamNames returns the accepted directive keys, label first.
func (k *Kind) ParamNames() []string {
	names := make([]string, 0, len(k.Params)+1)
	names = append(names, LabelParam)
	for _, param := range k.Params {
		names = append(names, param.Name)
	}
	return names
}

// Required returns the names of required parameters in declaration order.
func (k *Kind) Required() []string {
	var names []string
	for _, param := range k.Params {
		if param.Required {
			names = append(names, param.Name)
		}
	}
	return names
}

// AcceptsCategory reports whether the kind may bind a field of category c.
func (k *Kind) AcceptsCategory(c schema.Category) bool {
	for _, accepted := range k.Accepts {
		if accepted == c {
			return true
		}
	}
	return false
}

// validate checks the kind declaration and derives literal kinds and parsed
// defaults. It mutates k and must run before the kind is shared.
func (k *Kind) validate() error {
	if !token.IsIdentifier(k.Name) {
		return fmt.Errorf("widgets: invalid kind name %q", k.Name)
	}
	if !token.IsIdentifier(k.Build) {
		return fmt.Errorf("widgets: kind %q: invalid build operation %q", k.Name, k.Build)
	}
	if !token.IsIdentifier(k.ParamsType) {
		return fmt.Errorf("widgets: kind %q: invalid params type %q", k.Name, k.ParamsType)
	}
	if len(k.Accepts) == 0 {
		return fmt.Errorf("widgets: kind %q: no accepted categories", k.Name)
	}
	if k.Operand != "" && !isTypeName(k.Operand) {
		return fmt.Errorf("widgets: kind %q: invalid operand type %q", k.Name, k.Operand)
	}
	if k.Result.Type == "" || k.Result.Default == "" {
		return fmt.Errorf("widgets: kind %q: result type and default are required", k.Name)
	}

	seen := map[string]bool{LabelParam: true}
	fields := map[string]bool{"Label": true}
	for idx := range k.Params {
		param := &k.Params[idx]
		if !token.IsIdentifier(param.Name) {
			return fmt.Errorf("widgets: kind %q: invalid parameter name %q", k.Name, param.Name)
		}
		if seen[param.Name] {
			return fmt.Errorf("widgets: kind %q: parameter %q declared twice", k.Name, param.Name)
		}
		seen[param.Name] = true
		if !token.IsExported(param.Field) || fields[param.Field] {
			return fmt.Errorf("widgets: kind %q: parameter %q: invalid or duplicate field %q", k.Name, param.Name, param.Field)
		}
		fields[param.Field] = true

		if len(param.Kinds) == 0 {
			kinds, ok := literalKinds(param.GoType)
			if !ok {
				return fmt.Errorf("widgets: kind %q: parameter %q: unsupported type %q", k.Name, param.Name, param.GoType)
			}
			param.Kinds = kinds
		}
		if param.Index {
			if _, _, isInt := intRange(param.GoType); !isInt {
				return fmt.Errorf("widgets: kind %q: index parameter %q must be an integer type", k.Name, param.Name)
			}
		}
		if param.Required && param.Default != "" {
			return fmt.Errorf("widgets: kind %q: required parameter %q cannot declare a default", k.Name, param.Name)
		}
		if param.Default != "" {
			lit, err := directive.ParseLiteral(param.Default, diag.Pos{})
			if err != nil {
				return fmt.Errorf("widgets: kind %q: parameter %q default: %w", k.Name, param.Name, err)
			}
			if !param.Accepts(lit.Kind) {
				return fmt.Errorf("widgets: kind %q: parameter %q default %s is not a %s", k.Name, param.Name, param.Default, param.Expected())
			}
			if err := param.Fits(lit); err != nil {
				return fmt.Errorf("widgets: kind %q: parameter %q default: %w", k.Name, param.Name, err)
			}
			param.defaultLit = &lit
		}
	}
	return nil
}

// isTypeName accepts identifiers and package-qualified identifiers.
func isTypeName(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if !token.IsIdentifier(part) {
			return false
		}
	}
	return strings.Count(name, ".") <= 1
}

func literalKinds(goType string) ([]directive.LitKind, bool) {
	switch goType {
	case "string":
		return []directive.LitKind{directive.LitString}, true
	case "float32", "float64":
		return []directive.LitKind{directive.LitFloat, directive.LitInt}, true
	}
	if _, _, isInt := intRange(goType); isInt {
		return []directive.LitKind{directive.LitInt}, true
	}
	return nil, false
}

func intRange(goType string) (lo, hi int64, ok bool) {
	switch goType {
	case "int8":
		return math.MinInt8, math.MaxInt8, true
	case "int16":
		return math.MinInt16, math.MaxInt16, true
	case "int32":
		return math.MinInt32, math.MaxInt32, true
	case "int", "int64":
		return math.MinInt64, math.MaxInt64, true
	case "uint8":
		return 0, math.MaxUint8, true
	case "uint16":
		return 0, math.MaxUint16, true
	case "uint32":
		return 0, math.MaxUint32, true
	case "uint", "uint64":
		return 0, math.MaxInt64, true
	}
	return 0, 0, false
}
