// Package gosource extracts annotated struct declarations from Go source.
// A field is annotated by a `gui:"..."` struct tag entry or a `//gui:...`
// line in its doc comment; every occurrence counts as its own directive.
package gosource

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/schema"
)

const commentPrefix = "//" + schema.DirectiveKey

// generatedHeader opens every file guigen writes. Such files are skipped so
// regenerating into a package does not see the previous output.
const generatedHeader = "// Code generated by guigen. DO NOT EDIT."

// Adapter implements schema.Adapter for Go files and package directories.
type Adapter struct{}

// NewAdapter returns the Go source adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name identifies the adapter.
func (a *Adapter) Name() string {
	return "go"
}

// Detect accepts .go files and directories.
func (a *Adapter) Detect(src schema.Source, _ []byte) bool {
	if src == nil {
		return false
	}
	switch src.Kind() {
	case schema.SourceKindDir:
		return true
	default:
		return strings.EqualFold(filepath.Ext(src.Location()), ".go")
	}
}

// Extract parses the source and returns its structs in source order. For a
// directory, non-test files are read in lexical order.
func (a *Adapter) Extract(ctx context.Context, src schema.Source) (schema.Schema, error) {
	if src == nil {
		return schema.Schema{}, fmt.Errorf("gosource: source is required")
	}
	if src.Kind() != schema.SourceKindDir {
		raw, err := schema.ReadSource(src)
		if err != nil {
			return schema.Schema{}, err
		}
		return ParseFile(src.Location(), raw)
	}

	names, err := goFiles(src.Location())
	if err != nil {
		return schema.Schema{}, err
	}
	files := make([]namedSource, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return schema.Schema{}, err
		}
		raw, err := os.ReadFile(name)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("gosource: read %s: %w", name, err)
		}
		files = append(files, namedSource{name: name, data: raw})
	}
	out, err := parseFiles(files)
	if err != nil {
		return schema.Schema{}, err
	}
	out.Source = src.Location()
	return out, nil
}

// ParseFile extracts the structs declared in one Go file.
func ParseFile(name string, src []byte) (schema.Schema, error) {
	out, err := parseFiles([]namedSource{{name: name, data: src}})
	if err != nil {
		return schema.Schema{}, err
	}
	out.Source = name
	return out, nil
}

type namedSource struct {
	name string
	data []byte
}

func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("gosource: read dir %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		names = append(names, filepath.Join(dir, name))
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("gosource: no Go files in %s", dir)
	}
	return names, nil
}

func parseFiles(sources []namedSource) (schema.Schema, error) {
	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(sources))
	for _, src := range sources {
		if bytes.HasPrefix(src.data, []byte(generatedHeader)) {
			continue
		}
		file, err := parser.ParseFile(fset, src.name, src.data, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("gosource: parse %s: %w", src.name, err)
		}
		files = append(files, file)
	}

	var out schema.Schema
	named := make(map[string]ast.Expr)
	for _, file := range files {
		if out.Package == "" {
			out.Package = file.Name.Name
		} else if out.Package != file.Name.Name {
			return schema.Schema{}, fmt.Errorf("gosource: mixed packages %s and %s", out.Package, file.Name.Name)
		}
		for _, spec := range typeSpecs(file) {
			named[spec.Name.Name] = spec.Type
		}
	}
	resolve := func(name string) ast.Expr { return named[name] }

	x := extractor{fset: fset, resolve: resolve}
	for _, file := range files {
		for _, spec := range typeSpecs(file) {
			st, ok := spec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			extracted, err := x.structType(spec, st)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Structs = append(out.Structs, extracted)
		}
		out.Decls = append(out.Decls, otherDecls(file)...)
	}
	return out, nil
}

// otherDecls lists package-level identifiers that are not struct types.
// Methods are skipped since they do not share the package scope.
func otherDecls(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name != "init" {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					if _, isStruct := sp.Type.(*ast.StructType); !isStruct || sp.TypeParams != nil {
						names = append(names, sp.Name.Name)
					}
				case *ast.ValueSpec:
					for _, name := range sp.Names {
						if name.Name != "_" {
							names = append(names, name.Name)
						}
					}
				}
			}
		}
	}
	return names
}

func typeSpecs(file *ast.File) []*ast.TypeSpec {
	var specs []*ast.TypeSpec
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok && ts.TypeParams == nil {
				specs = append(specs, ts)
			}
		}
	}
	return specs
}

type extractor struct {
	fset    *token.FileSet
	resolve schema.NamedResolver
}

func (x extractor) pos(p token.Pos) diag.Pos {
	position := x.fset.Position(p)
	return diag.Pos{File: position.Filename, Line: position.Line, Col: position.Column, Offset: position.Offset}
}

func (x extractor) structType(spec *ast.TypeSpec, st *ast.StructType) (schema.Struct, error) {
	out := schema.Struct{Name: spec.Name.Name, Pos: x.pos(spec.Name.Pos())}
	for _, field := range st.Fields.List {
		directives, err := x.directives(field)
		if err != nil {
			return schema.Struct{}, err
		}
		if len(field.Names) == 0 {
			if len(directives) > 0 {
				return schema.Struct{}, diag.Errorf(diag.SyntaxError, directives[0].Pos,
					"embedded field %s of %s cannot carry a widget directive", types.ExprString(field.Type), out.Name)
			}
			continue
		}

		typ := schema.ClassifyExpr(field.Type, x.resolve)
		for _, name := range field.Names {
			out.Fields = append(out.Fields, schema.Field{
				Name:       name.Name,
				Type:       typ,
				Directives: directives,
				Pos:        x.pos(name.Pos()),
			})
		}
	}
	return out, nil
}

// directives collects doc comment and tag directives in source order.
func (x extractor) directives(field *ast.Field) ([]schema.Directive, error) {
	var out []schema.Directive
	if field.Doc != nil {
		for _, comment := range field.Doc.List {
			line := strings.TrimRight(comment.Text, " \t")
			text, ok := commentDirective(line)
			if !ok {
				continue
			}
			offset := len(line) - len(text)
			out = append(out, schema.Directive{Text: text, Pos: x.pos(comment.Slash + token.Pos(offset))})
		}
	}
	if field.Tag != nil {
		entries, err := tagDirectives(field.Tag.Value)
		if err != nil {
			return nil, diag.Errorf(diag.SyntaxError, x.pos(field.Tag.Pos()), "malformed struct tag: %v", err)
		}
		for _, entry := range entries {
			out = append(out, schema.Directive{Text: entry.text, Pos: x.pos(field.Tag.Pos() + token.Pos(entry.offset))})
		}
	}
	return out, nil
}

// commentDirective returns the payload of `//gui` or `//gui:payload`.
func commentDirective(comment string) (string, bool) {
	if !strings.HasPrefix(comment, commentPrefix) {
		return "", false
	}
	rest := comment[len(commentPrefix):]
	switch {
	case rest == "":
		return "", true
	case strings.HasPrefix(rest, ":"):
		return rest[1:], true
	default:
		return "", false
	}
}
