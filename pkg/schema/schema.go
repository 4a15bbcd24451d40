// Package schema holds the static description of the record types handed to
// the directive compiler: ordered fields, their type categories and the raw
// directive text attached to each field.
package schema

import (
	"sort"
	"strings"

	"github.com/goliatone/go-guigen/pkg/diag"
)

// Directive is one unparsed annotation payload attached to a field.
type Directive struct {
	Text string
	Pos  diag.Pos
}

// Field describes a single record field in declaration order.
type Field struct {
	Name       string
	Type       Type
	Directives []Directive
	Pos        diag.Pos
}

// Annotated reports whether the field carries at least one directive.
func (f Field) Annotated() bool {
	return len(f.Directives) > 0
}

// Struct is a record type whose fields may carry widget directives.
type Struct struct {
	Name   string
	Fields []Field
	Pos    diag.Pos
}

// Annotated reports whether any field carries a directive.
func (s Struct) Annotated() bool {
	for _, field := range s.Fields {
		if field.Annotated() {
			return true
		}
	}
	return false
}

// Schema is the set of structs extracted from one source, in source order.
type Schema struct {
	Package string
	Source  string
	Structs []Struct
	// Decls names the other package-level declarations found alongside the
	// structs (functions, variables, constants, non-struct types), when the
	// source language has them.
	Decls []string
}

// Declared reports whether name is taken by a struct or another declaration.
func (s Schema) Declared(name string) bool {
	if _, ok := s.Struct(name); ok {
		return true
	}
	for _, decl := range s.Decls {
		if decl == name {
			return true
		}
	}
	return false
}

// Struct looks up a struct by name.
func (s Schema) Struct(name string) (Struct, bool) {
	for _, st := range s.Structs {
		if st.Name == name {
			return st, true
		}
	}
	return Struct{}, false
}

// AnnotatedNames returns the sorted names of structs that carry directives.
func (s Schema) AnnotatedNames() []string {
	var names []string
	for _, st := range s.Structs {
		if st.Annotated() {
			names = append(names, st.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Select returns the named structs in the requested order. Unknown names are
// reported together so callers see every typo at once.
func (s Schema) Select(names ...string) ([]Struct, []string) {
	var (
		out     []Struct
		missing []string
	)
	for _, name := range names {
		st, ok := s.Struct(strings.TrimSpace(name))
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, st)
	}
	return out, missing
}
