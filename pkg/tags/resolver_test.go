package tags

import (
	"strings"
	"testing"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

var at = diag.Pos{File: "settings.go", Line: 7, Col: 14}

func field(t *testing.T, name, typ string) schema.Field {
	t.Helper()
	parsed, err := schema.ParseType(typ)
	if err != nil {
		t.Fatalf("parse type %q: %v", typ, err)
	}
	return schema.Field{Name: name, Type: parsed, Pos: at}
}

func resolve(t *testing.T, text string, f schema.Field) (Tag, error) {
	t.Helper()
	node, err := directive.ParseText(text, at)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	tag, ok, err := NewResolver(nil).Resolve(node, f)
	if err == nil && !ok {
		t.Fatalf("expected a tag for %q", text)
	}
	return tag, err
}

func TestResolve_NoDirective(t *testing.T) {
	_, ok, err := NewResolver(nil).Resolve(nil, field(t, "Speed", "float32"))
	if err != nil || ok {
		t.Fatalf("expected no tag, got ok=%v err=%v", ok, err)
	}
}

func TestResolve_Shapes(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		kind  string
		label string
	}{
		{"empty is simple", "", widgets.KindSimple, "Speed"},
		{"label pair", `label = "Top speed"`, widgets.KindSimple, "Top speed"},
		{"bare kind", "drag", widgets.KindDrag, "Speed"},
		{"bare input", "input", widgets.KindInput, "Speed"},
		{"call", `drag(label = "Fast")`, widgets.KindDrag, "Fast"},
		{"empty call", `input()`, widgets.KindInput, "Speed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := resolve(t, tc.text, field(t, "Speed", "float32"))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if tag.KindName() != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, tag.KindName())
			}
			if tag.Label != tc.label {
				t.Fatalf("expected label %q, got %q", tc.label, tag.Label)
			}
			if len(tag.Values) != len(tag.Kind.Params) {
				t.Fatalf("expected one value per declared parameter, got %d", len(tag.Values))
			}
		})
	}
}

func TestResolve_DragParameters(t *testing.T) {
	tag, err := resolve(t, `drag(label = "Speed", min = 0.0, max = 10)`, field(t, "Speed", "float32"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := map[string]string{"display": "", "min": "0.0", "max": "10", "speed": "", "power": ""}
	order := []string{"display", "min", "max", "speed", "power"}
	for idx, value := range tag.Values {
		if value.Param.Name != order[idx] {
			t.Fatalf("value %d: expected %s, got %s", idx, order[idx], value.Param.Name)
		}
		expected := want[value.Param.Name]
		if expected == "" {
			if value.Set {
				t.Fatalf("%s: expected absent, got %s", value.Param.Name, value.Lit.Raw)
			}
			continue
		}
		if !value.Set || value.Lit.Raw != expected {
			t.Fatalf("%s: expected %s, got %+v", value.Param.Name, expected, value)
		}
	}
}

func TestResolve_ComboboxDefaultSelected(t *testing.T) {
	tag, err := resolve(t, `combobox(label = "choose one")`, field(t, "Tags", "[3]string"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	selected, ok := tag.Value("selected")
	if !ok || !selected.Set || !selected.Defaulted || selected.Lit.Int != 0 {
		t.Fatalf("expected defaulted selected=0, got %+v", selected)
	}
}

func TestResolve_Diagnostics(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		kind       diag.Kind
		col        int
		msg        string
		suggestion string
	}{
		{
			name: "unknown kind", text: `slidr(min = 1, max = 2)`,
			kind: diag.UnsupportedWidgetKind, col: 14, msg: "unsupported widget kind 'slidr'",
			suggestion: "did you mean 'slider'?",
		},
		{
			name: "unknown bare kind", text: `spinner`,
			kind: diag.UnsupportedWidgetKind, col: 14, msg: "unsupported widget kind 'spinner'",
		},
		{
			name: "unknown parameter", text: `drag(sped = 1)`,
			kind: diag.UnrecognizedParameter, col: 19, msg: "unrecognized parameter 'sped' for widget kind 'drag'",
			suggestion: "did you mean 'speed'?",
		},
		{
			name: "already set", text: `drag(min = 1, min = 2)`,
			kind: diag.ParameterAlreadySet, col: 28, msg: "parameter 'min' already set",
		},
		{
			name: "label already set", text: `label = "a", label = "b"`,
			kind: diag.ParameterAlreadySet, col: 27, msg: "parameter 'label' already set",
		},
		{
			name: "literal mismatch", text: `slider(min = "low", max = 1)`,
			kind: diag.LiteralKindMismatch, col: 27, msg: "expects a float, found string",
		},
		{
			name: "integer mismatch", text: `input(precision = 1.5)`,
			kind: diag.LiteralKindMismatch, col: 32, msg: "expects an integer, found float",
		},
		{
			name: "label mismatch", text: `drag(label = 3)`,
			kind: diag.LiteralKindMismatch, col: 27, msg: "expects a string, found integer",
		},
		{
			name: "overflow", text: `input(precision = 3000000000)`,
			kind: diag.LiteralKindMismatch, col: 32, msg: "overflows int32",
		},
		{
			name: "missing min before max", text: `slider(label = "x")`,
			kind: diag.MissingRequiredParameter, col: 14, msg: "missing required parameter 'min'",
		},
		{
			name: "missing max", text: `slider(min = 0)`,
			kind: diag.MissingRequiredParameter, col: 14, msg: "missing required parameter 'max'",
		},
		{
			name: "bare kind with required params", text: `slider`,
			kind: diag.MissingRequiredParameter, col: 14, msg: "missing required parameter 'min'",
		},
		{
			name: "pairs outside label", text: `min = 0`,
			kind: diag.UnrecognizedParameter, col: 14, msg: "unrecognized parameter 'min' for widget kind 'simple'",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolve(t, tc.text, field(t, "Speed", "float32"))
			d, ok := diag.As(err)
			if !ok {
				t.Fatalf("expected diagnostic, got %v", err)
			}
			if d.Kind != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, d.Kind, d)
			}
			if d.Pos.Line != 7 || d.Pos.Col != tc.col {
				t.Fatalf("expected 7:%d, got %s", tc.col, d.Pos)
			}
			if !strings.Contains(d.Msg, tc.msg) {
				t.Fatalf("expected message containing %q, got %q", tc.msg, d.Msg)
			}
			if d.Suggestion != tc.suggestion {
				t.Fatalf("expected suggestion %q, got %q", tc.suggestion, d.Suggestion)
			}
		})
	}
}
