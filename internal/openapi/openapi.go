// Package openapi extracts annotated structs from OpenAPI 3 documents. Each
// object schema under components.schemas becomes a struct; its properties
// become fields, and the `x-gui` extension carries the widget directives.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/schema"
)

const (
	// DirectiveExtension is the property extension holding directives.
	DirectiveExtension = "x-" + schema.DirectiveKey
	// NameExtension overrides the generated Go field name.
	NameExtension = "x-go-name"
	// PackageExtension on the info object names the generated package.
	PackageExtension = "x-go-package"

	defaultPackage = "api"
)

// Options tweak document handling.
type Options struct {
	// SkipValidation disables kin-openapi document validation.
	SkipValidation bool
}

// Option mutates Options.
type Option func(*Options)

// WithoutValidation accepts documents that fail OpenAPI validation.
func WithoutValidation() Option {
	return func(o *Options) {
		o.SkipValidation = true
	}
}

// Adapter implements schema.Adapter for OpenAPI documents.
type Adapter struct {
	options Options
}

var _ schema.Adapter = (*Adapter)(nil)

// NewAdapter constructs the OpenAPI adapter.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		if opt != nil {
			opt(&a.options)
		}
	}
	return a
}

func (a *Adapter) Name() string {
	return "openapi"
}

// Detect matches YAML/JSON payloads declaring an `openapi: 3.x` version.
func (a *Adapter) Detect(src schema.Source, raw []byte) bool {
	if src == nil || len(raw) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(src.Location())) {
	case ".json", ".yaml", ".yml":
	default:
		return false
	}
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return strings.HasPrefix(probe.OpenAPI, "3")
}

func (a *Adapter) Extract(ctx context.Context, src schema.Source) (schema.Schema, error) {
	if src == nil {
		return schema.Schema{}, errors.New("openapi: source is required")
	}
	raw, err := schema.ReadSource(src)
	if err != nil {
		return schema.Schema{}, err
	}
	return a.Parse(ctx, src.Location(), raw)
}

// Parse loads the document with kin-openapi and walks its YAML node tree to
// keep declaration order and coordinates.
func (a *Adapter) Parse(ctx context.Context, name string, raw []byte) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	if len(raw) == 0 {
		return schema.Schema{}, fmt.Errorf("openapi: document %s is empty", name)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: load %s: %w", name, err)
	}
	if !a.options.SkipValidation {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Schema{}, fmt.Errorf("openapi: validate %s: %w", name, err)
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: parse %s: %w", name, err)
	}

	out := schema.Schema{Package: packageName(doc), Source: name}
	if doc.Components == nil {
		return out, nil
	}

	schemasNode := lookup(documentNode(&root), "components", "schemas")
	if schemasNode == nil || schemasNode.Kind != yaml.MappingNode {
		return out, nil
	}
	for i := 0; i+1 < len(schemasNode.Content); i += 2 {
		keyNode, valueNode := schemasNode.Content[i], schemasNode.Content[i+1]
		ref := doc.Components.Schemas[keyNode.Value]
		if ref == nil || ref.Value == nil || !isObject(ref.Value) {
			continue
		}
		st, err := structFromSchema(name, keyNode, valueNode, ref.Value, doc.Components.Schemas)
		if err != nil {
			return schema.Schema{}, err
		}
		out.Structs = append(out.Structs, st)
	}
	return out, nil
}

func structFromSchema(file string, keyNode, valueNode *yaml.Node, value *openapi3.Schema, components openapi3.Schemas) (schema.Struct, error) {
	st := schema.Struct{
		Name: goName(keyNode.Value),
		Pos:  diag.Pos{File: file, Line: keyNode.Line, Col: keyNode.Column},
	}
	props := lookup(valueNode, "properties")
	if props == nil || props.Kind != yaml.MappingNode {
		return st, nil
	}

	seen := make(map[string]string)
	for i := 0; i+1 < len(props.Content); i += 2 {
		propKey, propNode := props.Content[i], props.Content[i+1]
		prop := value.Properties[propKey.Value]
		if prop == nil {
			continue
		}

		fieldName := goName(propKey.Value)
		if prop.Value != nil {
			if override, ok := prop.Value.Extensions[NameExtension].(string); ok && strings.TrimSpace(override) != "" {
				fieldName = strings.TrimSpace(override)
			}
		}
		if other, exists := seen[fieldName]; exists {
			return schema.Struct{}, fmt.Errorf("openapi: %s schema %q: properties %q and %q both map to field %s",
				file, keyNode.Value, other, propKey.Value, fieldName)
		}
		seen[fieldName] = propKey.Value

		typ, err := schema.ParseType(goType(prop, components, 0))
		if err != nil {
			return schema.Struct{}, fmt.Errorf("openapi: %s schema %q property %q: %w", file, keyNode.Value, propKey.Value, err)
		}
		var directives []schema.Directive
		if ext := lookup(propNode, DirectiveExtension); ext != nil {
			directives, err = schema.DirectivesFromNode(file, ext)
			if err != nil {
				return schema.Struct{}, fmt.Errorf("openapi: %s schema %q property %q: %w", file, keyNode.Value, propKey.Value, err)
			}
		}

		st.Fields = append(st.Fields, schema.Field{
			Name:       fieldName,
			Type:       typ,
			Directives: directives,
			Pos:        diag.Pos{File: file, Line: propKey.Line, Col: propKey.Column},
		})
	}
	return st, nil
}

const maxRefDepth = 8

// goType renders the Go type expression a property maps to.
func goType(ref *openapi3.SchemaRef, components openapi3.Schemas, depth int) string {
	if ref == nil || ref.Value == nil {
		return "any"
	}
	if ref.Ref != "" {
		name := ref.Ref[strings.LastIndex(ref.Ref, "/")+1:]
		if isObject(ref.Value) || depth >= maxRefDepth {
			return goName(name)
		}
		if target, ok := components[name]; ok && target != nil {
			return goType(&openapi3.SchemaRef{Value: target.Value}, components, depth+1)
		}
	}

	value := ref.Value
	switch {
	case value.Type.Is(openapi3.TypeBoolean):
		return "bool"
	case value.Type.Is(openapi3.TypeInteger):
		switch value.Format {
		case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
			return value.Format
		}
		return "int"
	case value.Type.Is(openapi3.TypeNumber):
		if value.Format == "float" {
			return "float32"
		}
		return "float64"
	case value.Type.Is(openapi3.TypeString):
		return "string"
	case value.Type.Is(openapi3.TypeArray):
		elem := goType(value.Items, components, depth+1)
		if value.MaxItems != nil && *value.MaxItems == value.MinItems {
			return fmt.Sprintf("[%d]%s", value.MinItems, elem)
		}
		return "[]" + elem
	case value.Type.Is(openapi3.TypeObject):
		return "map[string]any"
	default:
		return "any"
	}
}

func isObject(value *openapi3.Schema) bool {
	return value.Type.Is(openapi3.TypeObject) || (value.Type == nil && len(value.Properties) > 0)
}

func packageName(doc *openapi3.T) string {
	if doc.Info != nil {
		if name, ok := doc.Info.Extensions[PackageExtension].(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return defaultPackage
}

// goName converts a schema or property name into an exported identifier.
func goName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}

func documentNode(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0]
	}
	return root
}

// lookup descends through mapping keys.
func lookup(node *yaml.Node, path ...string) *yaml.Node {
	current := node
	for _, key := range path {
		if current == nil || current.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(current.Content); i += 2 {
			if current.Content[i].Value == key {
				next = current.Content[i+1]
				break
			}
		}
		current = next
	}
	return current
}
