package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-guigen/pkg/diag"
)

// DirectiveKey is the document key (and struct tag key) holding directives.
const DirectiveKey = "gui"

// DocumentAdapter reads YAML or JSON schema documents:
//
//	package: demo
//	structs:
//	  - name: Demo
//	    fields:
//	      - name: Speed
//	        type: float32
//	        gui: 'drag(label="Speed", min=0.0, max=10.0)'
//
// A `gui` sequence yields one directive per entry.
type DocumentAdapter struct{}

// NewDocumentAdapter constructs the schema document adapter.
func NewDocumentAdapter() *DocumentAdapter {
	return &DocumentAdapter{}
}

var _ Adapter = (*DocumentAdapter)(nil)

func (a *DocumentAdapter) Name() string {
	return "document"
}

// Detect matches YAML/JSON payloads with a top-level "structs" key.
func (a *DocumentAdapter) Detect(src Source, raw []byte) bool {
	if src == nil || len(raw) == 0 || !isDocumentFile(src.Location()) {
		return false
	}
	var probe struct {
		Structs yaml.Node `yaml:"structs"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Structs.Kind == yaml.SequenceNode
}

// Extract parses the document behind src.
func (a *DocumentAdapter) Extract(ctx context.Context, src Source) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	raw, err := ReadSource(src)
	if err != nil {
		return Schema{}, err
	}
	return ParseDocument(src.Location(), raw)
}

type documentFile struct {
	Package string       `yaml:"package"`
	Structs []structFile `yaml:"structs"`
}

type structFile struct {
	Name   string      `yaml:"name"`
	Fields []yaml.Node `yaml:"fields"`
}

type fieldFile struct {
	Name string    `yaml:"name"`
	Type string    `yaml:"type"`
	GUI  yaml.Node `yaml:"gui"`
}

// ParseDocument decodes a schema document. Coordinates in the returned schema
// point into the document so diagnostics land on the offending entry.
func ParseDocument(name string, raw []byte) (Schema, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Schema{}, fmt.Errorf("schema: file %s is empty", name)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Schema{}, fmt.Errorf("schema: parse %s: %w", name, err)
	}
	var doc documentFile
	if err := root.Decode(&doc); err != nil {
		return Schema{}, fmt.Errorf("schema: decode %s: %w", name, err)
	}

	out := Schema{
		Package: strings.TrimSpace(doc.Package),
		Source:  name,
	}
	if out.Package == "" {
		return Schema{}, fmt.Errorf("schema: file %s does not declare a package", name)
	}

	seen := make(map[string]struct{}, len(doc.Structs))
	for idx, raw := range doc.Structs {
		st, err := normaliseStruct(name, idx, raw)
		if err != nil {
			return Schema{}, err
		}
		if _, exists := seen[st.Name]; exists {
			return Schema{}, fmt.Errorf("schema: file %s declares struct %q twice", name, st.Name)
		}
		seen[st.Name] = struct{}{}
		out.Structs = append(out.Structs, st)
	}
	return out, nil
}

func normaliseStruct(file string, idx int, raw structFile) (Struct, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Struct{}, fmt.Errorf("schema: file %s struct #%d has an empty name", file, idx)
	}
	st := Struct{Name: name}

	fieldNames := make(map[string]struct{}, len(raw.Fields))
	for fidx := range raw.Fields {
		node := &raw.Fields[fidx]
		if fidx == 0 {
			st.Pos = nodePos(file, node)
		}

		var ff fieldFile
		if err := node.Decode(&ff); err != nil {
			return Struct{}, fmt.Errorf("schema: file %s struct %q field #%d: %w", file, name, fidx, err)
		}
		fieldName := strings.TrimSpace(ff.Name)
		if fieldName == "" {
			return Struct{}, fmt.Errorf("schema: file %s struct %q field #%d has an empty name", file, name, fidx)
		}
		if _, exists := fieldNames[fieldName]; exists {
			return Struct{}, fmt.Errorf("schema: file %s struct %q defines duplicate field %q", file, name, fieldName)
		}
		fieldNames[fieldName] = struct{}{}

		typ, err := ParseType(strings.TrimSpace(ff.Type))
		if err != nil {
			return Struct{}, fmt.Errorf("schema: file %s struct %q field %q: %w", file, name, fieldName, err)
		}
		directives, err := DirectivesFromNode(file, &ff.GUI)
		if err != nil {
			return Struct{}, fmt.Errorf("schema: file %s struct %q field %q: %w", file, name, fieldName, err)
		}

		st.Fields = append(st.Fields, Field{
			Name:       fieldName,
			Type:       typ,
			Directives: directives,
			Pos:        nodePos(file, node),
		})
	}
	return st, nil
}

// DirectivesFromNode converts a directive node (absent, scalar or sequence
// of scalars) into directives positioned inside file.
func DirectivesFromNode(file string, node *yaml.Node) ([]Directive, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []Directive{scalarDirective(file, node)}, nil
	case yaml.SequenceNode:
		out := make([]Directive, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, errors.New("directive entries must be strings")
			}
			out = append(out, scalarDirective(file, item))
		}
		return out, nil
	default:
		return nil, errors.New("directives must be a string or a list of strings")
	}
}

func scalarDirective(file string, node *yaml.Node) Directive {
	pos := nodePos(file, node)
	// Quoted scalars start one column before their content.
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		pos.Col++
	}
	return Directive{Text: node.Value, Pos: pos}
}

func nodePos(file string, node *yaml.Node) diag.Pos {
	return diag.Pos{File: file, Line: node.Line, Col: node.Column}
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
