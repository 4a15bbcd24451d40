package tags

import (
	"fmt"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

// Resolver maps directive syntax trees onto registered widget kinds.
type Resolver struct {
	Registry *widgets.Registry
}

// NewResolver builds a resolver over reg. A nil reg uses the default
// registry.
func NewResolver(reg *widgets.Registry) *Resolver {
	if reg == nil {
		reg = widgets.NewRegistry()
	}
	return &Resolver{Registry: reg}
}

// Resolve produces the tag for one field. ok is false when the field carries
// no directive. Either a complete tag or a diagnostic is returned.
func (r *Resolver) Resolve(node directive.Node, field schema.Field) (Tag, bool, error) {
	switch n := node.(type) {
	case nil:
		return Tag{}, false, nil
	case *directive.Empty:
		kind, err := r.kind(widgets.KindSimple, n.Pos)
		if err != nil {
			return Tag{}, false, err
		}
		tag, err := resolveParams(kind, nil, field, n.Pos)
		return tag, err == nil, err
	case *directive.Word:
		kind, err := r.kind(n.Name, n.Pos)
		if err != nil {
			return Tag{}, false, err
		}
		tag, err := resolveParams(kind, nil, field, n.Pos)
		return tag, err == nil, err
	case *directive.Pairs:
		kind, err := r.kind(widgets.KindSimple, n.Pos)
		if err != nil {
			return Tag{}, false, err
		}
		tag, err := resolveParams(kind, n.Pairs, field, n.Pos)
		return tag, err == nil, err
	case *directive.Call:
		kind, err := r.kind(n.Name, n.Pos)
		if err != nil {
			return Tag{}, false, err
		}
		tag, err := resolveParams(kind, n.Pairs, field, n.Pos)
		return tag, err == nil, err
	default:
		return Tag{}, false, diag.Errorf(diag.SyntaxError, node.Position(), "unsupported directive shape %T", node)
	}
}

func (r *Resolver) kind(name string, pos diag.Pos) (*widgets.Kind, error) {
	kind, ok := r.Registry.Lookup(name)
	if !ok {
		return nil, diag.Errorf(diag.UnsupportedWidgetKind, pos, "unsupported widget kind '%s'", name).
			WithSuggestion(r.Registry.Suggest(name))
	}
	return kind, nil
}

// resolveParams fills the parameter table of one directive against kind.
func resolveParams(kind *widgets.Kind, pairs []directive.Pair, field schema.Field, pos diag.Pos) (Tag, error) {
	table := make(map[string]directive.Literal, len(pairs))

	for _, pair := range pairs {
		spec, declared := paramSpec(kind, pair.Name)
		if !declared {
			return Tag{}, diag.Errorf(diag.UnrecognizedParameter, pair.NamePos,
				"unrecognized parameter '%s' for widget kind '%s'", pair.Name, kind.Name).
				WithSuggestion(diag.SuggestFrom(pair.Name, kind.ParamNames(), 2))
		}
		if _, set := table[pair.Name]; set {
			return Tag{}, diag.Errorf(diag.ParameterAlreadySet, pair.NamePos,
				"parameter '%s' already set", pair.Name)
		}
		if !spec.Accepts(pair.Value.Kind) {
			return Tag{}, diag.Errorf(diag.LiteralKindMismatch, pair.Value.Pos,
				"parameter '%s' of widget kind '%s' expects %s, found %s",
				pair.Name, kind.Name, article(spec.Expected()), pair.Value.Kind)
		}
		if err := spec.Fits(pair.Value); err != nil {
			return Tag{}, diag.Errorf(diag.LiteralKindMismatch, pair.Value.Pos,
				"parameter '%s': %v", pair.Name, err)
		}
		table[pair.Name] = pair.Value
	}

	for _, spec := range kind.Params {
		if !spec.Required {
			continue
		}
		if _, set := table[spec.Name]; !set {
			return Tag{}, diag.Errorf(diag.MissingRequiredParameter, pos,
				"missing required parameter '%s' for widget kind '%s'", spec.Name, kind.Name)
		}
	}

	tag := Tag{Kind: kind, Label: field.Name, Pos: pos}
	if lit, ok := table[widgets.LabelParam]; ok {
		tag.Label = lit.Str
	}
	tag.Values = make([]Value, len(kind.Params))
	for idx, spec := range kind.Params {
		value := Value{Param: spec}
		if lit, ok := table[spec.Name]; ok {
			value.Set = true
			value.Lit = lit
		} else if lit, ok := spec.DefaultLiteral(); ok {
			value.Set = true
			value.Defaulted = true
			value.Lit = lit
		}
		tag.Values[idx] = value
	}
	return tag, nil
}

func paramSpec(kind *widgets.Kind, name string) (widgets.ParamSpec, bool) {
	if name == widgets.LabelParam {
		return widgets.ParamSpec{
			Name:   widgets.LabelParam,
			Field:  "Label",
			GoType: "string",
			Kinds:  []directive.LitKind{directive.LitString},
		}, true
	}
	spec, _, ok := kind.Param(name)
	return spec, ok
}

func article(k directive.LitKind) string {
	if k == directive.LitInt {
		return fmt.Sprintf("an %s", k)
	}
	return fmt.Sprintf("a %s", k)
}
