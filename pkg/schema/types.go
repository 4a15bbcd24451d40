package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
)

// Category is the coarse data-type family used for widget compatibility.
type Category int

const (
	Other Category = iota
	NumericScalar
	NumericArray
	FixedStringArray
	Boolean
)

func (c Category) String() string {
	switch c {
	case NumericScalar:
		return "NumericScalar"
	case NumericArray:
		return "NumericArray"
	case FixedStringArray:
		return "FixedStringArray"
	case Boolean:
		return "Boolean"
	default:
		return "Other"
	}
}

// ParseCategory maps a category name (as used in catalogue files) back to
// the enumeration.
func ParseCategory(name string) (Category, bool) {
	for _, c := range []Category{Other, NumericScalar, NumericArray, FixedStringArray, Boolean} {
		if c.String() == name {
			return c, true
		}
	}
	return Other, false
}

// Type is a field's declared type. Width and Signed apply to NumericScalar;
// Len applies to the array categories and is -1 when the length is not a
// literal constant.
type Type struct {
	Category Category
	Width    int
	Signed   bool
	Float    bool
	Len      int
	// Elem is the Go type a build operation receives a pointer to, or a
	// slice of for arrays: the field's own type for scalars, the element
	// type for arrays. Named types keep their name.
	Elem string
	Expr string
}

func (t Type) String() string {
	switch t.Category {
	case NumericScalar:
		return fmt.Sprintf("NumericScalar(%d, signed=%t)", t.Width, t.Signed)
	case NumericArray, FixedStringArray:
		if t.Len < 0 {
			return t.Category.String() + "(?)"
		}
		return fmt.Sprintf("%s(%d)", t.Category, t.Len)
	default:
		return t.Category.String()
	}
}

// NamedResolver returns the underlying type expression for a locally declared
// named type, or nil when the name is unknown.
type NamedResolver func(name string) ast.Expr

// ParseType classifies a Go type expression such as "float32" or "[3]string".
func ParseType(expr string) (Type, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return Type{}, fmt.Errorf("schema: parse type %q: %w", expr, err)
	}
	return ClassifyExpr(node, nil), nil
}

// ClassifyExpr classifies an AST type expression. Local named types are
// followed through resolve, up to a small depth to break cycles.
func ClassifyExpr(expr ast.Expr, resolve NamedResolver) Type {
	out := classify(expr, resolve, 0)
	out.Expr = types.ExprString(expr)
	return out
}

const maxResolveDepth = 8

func classify(expr ast.Expr, resolve NamedResolver, depth int) Type {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return classify(x.X, resolve, depth)
	case *ast.Ident:
		if t, ok := basicType(x.Name); ok {
			t.Elem = canonicalName(x.Name)
			return t
		}
		if resolve != nil && depth < maxResolveDepth {
			if under := resolve(x.Name); under != nil {
				t := classify(under, resolve, depth+1)
				// Slicing a named array yields a slice of its element type,
				// so only scalars take the declared name.
				if t.Category != NumericArray && t.Category != FixedStringArray {
					t.Elem = x.Name
				}
				return t
			}
		}
		return Type{Category: Other, Elem: x.Name}
	case *ast.ArrayType:
		if x.Len == nil {
			return Type{Category: Other}
		}
		length := arrayLen(x.Len)
		elem := classify(x.Elt, resolve, depth)
		switch {
		case elem.Category == NumericScalar:
			return Type{Category: NumericArray, Len: length, Width: elem.Width, Signed: elem.Signed, Float: elem.Float, Elem: elem.Elem}
		case isStringElem(x.Elt, resolve, depth):
			return Type{Category: FixedStringArray, Len: length, Elem: elem.Elem}
		}
		return Type{Category: Other}
	default:
		return Type{Category: Other}
	}
}

func isStringElem(expr ast.Expr, resolve NamedResolver, depth int) bool {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		// Qualified string-like types from toolkits (e.g. widget.String) are
		// not known statically.
		return false
	}
	if ident.Name == "string" {
		return true
	}
	if resolve != nil && depth < maxResolveDepth {
		if under := resolve(ident.Name); under != nil {
			return isStringElem(under, resolve, depth+1)
		}
	}
	return false
}

func arrayLen(expr ast.Expr) int {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return -1
	}
	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil || n < 0 {
		return -1
	}
	return int(n)
}

// canonicalName maps the byte and rune aliases onto the types they denote.
func canonicalName(name string) string {
	switch name {
	case "byte":
		return "uint8"
	case "rune":
		return "int32"
	}
	return name
}

func basicType(name string) (Type, bool) {
	switch name {
	case "bool":
		return Type{Category: Boolean}, true
	case "int8":
		return scalar(8, true, false), true
	case "int16":
		return scalar(16, true, false), true
	case "int32", "rune":
		return scalar(32, true, false), true
	case "int64", "int":
		return scalar(64, true, false), true
	case "uint8", "byte":
		return scalar(8, false, false), true
	case "uint16":
		return scalar(16, false, false), true
	case "uint32":
		return scalar(32, false, false), true
	case "uint64", "uint", "uintptr":
		return scalar(64, false, false), true
	case "float32":
		return scalar(32, true, true), true
	case "float64":
		return scalar(64, true, true), true
	}
	return Type{}, false
}

func scalar(width int, signed, float bool) Type {
	return Type{Category: NumericScalar, Width: width, Signed: signed, Float: float}
}
