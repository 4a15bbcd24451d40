package compiler

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/emitter"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/testsupport"
)

func generate(t *testing.T, c *Compiler, req Request) Result {
	t.Helper()
	res, err := c.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return res
}

func generateErr(t *testing.T, name, src string, opts ...Option) error {
	t.Helper()
	_, err := New(opts...).Generate(context.Background(), Request{
		Source: schema.SourceFromBytes(name, []byte(src)),
	})
	if err == nil {
		t.Fatalf("expected %s to fail", name)
	}
	return err
}

func TestGenerate_EverySourceFormatMatchesGolden(t *testing.T) {
	golden := filepath.Join("testdata", "panel.golden")

	cases := []struct {
		fixture string
		adapter string
	}{
		{"panel.go", "go"},
		{"panel.yaml", "document"},
		{"panel.openapi.yaml", "openapi"},
	}
	for _, tc := range cases {
		t.Run(tc.fixture, func(t *testing.T) {
			res := generate(t, New(), Request{Source: schema.SourceFromFile(filepath.Join("testdata", tc.fixture))})
			if res.Adapter != tc.adapter {
				t.Fatalf("expected adapter %s, got %s", tc.adapter, res.Adapter)
			}
			testsupport.AssertGolden(t, golden, res.File.Source)
		})
	}
}

func TestGenerate_DragEndToEnd(t *testing.T) {
	res := generate(t, New(), Request{Source: schema.SourceFromFile(filepath.Join("testdata", "panel.yaml"))})

	if len(res.File.Units) != 1 {
		t.Fatalf("expected one unit, got %d", len(res.File.Units))
	}
	unit := res.File.Units[0]
	if len(unit.Bindings) != 2 {
		t.Fatalf("expected two bindings (Notes is unannotated), got %d", len(unit.Bindings))
	}
	drag := unit.Bindings[0].Statement
	if strings.Count(unit.Routine, "widget.Drag(") != 1 {
		t.Fatalf("expected exactly one drag invocation:\n%s", unit.Routine)
	}
	for _, want := range []string{
		`Label:   "Speed"`,
		`Min:     widget.Some[float32](0.0)`,
		`Max:     widget.Some[float32](10.0)`,
		`Speed:   widget.None[float32]()`,
		`Power:   widget.None[float32]()`,
	} {
		if !strings.Contains(drag, want) {
			t.Fatalf("drag binding missing %q:\n%s", want, drag)
		}
	}

	members := unit.EventsType.Members
	if len(members) != 2 || members[0] != (emitter.Member{Name: "Speed", Type: "bool", Default: "false", Doc: members[0].Doc}) {
		t.Fatalf("unexpected members %+v", members)
	}
	if members[1].Type != "widget.Selection" || members[1].Default != "widget.NoSelection" {
		t.Fatalf("combobox member should carry the selection result, got %+v", members[1])
	}
	if strings.Contains(unit.Routine, "Notes") || strings.Contains(unit.Events, "Notes") {
		t.Fatalf("unannotated field leaked into the output")
	}
}

func TestGenerate_DeterministicAcrossConcurrency(t *testing.T) {
	src := schema.SourceFromFile(filepath.Join("testdata", "panel.go"))
	first := generate(t, New(), Request{Source: src})
	for i := 0; i < 5; i++ {
		again := generate(t, New(WithConcurrency(4)), Request{Source: src})
		if !bytes.Equal(first.File.Source, again.File.Source) {
			t.Fatalf("run %d differs:\n%s", i, testsupport.CompareGolden(string(first.File.Source), string(again.File.Source)))
		}
	}
}

func TestGenerate_ZeroAnnotatedFields(t *testing.T) {
	src := schema.SourceFromFile(filepath.Join("testdata", "panel.go"))
	res := generate(t, New(), Request{Source: src, Types: []string{"Theme"}})

	unit := res.File.Units[0]
	if len(unit.Bindings) != 0 || len(unit.EventsType.Members) != 0 {
		t.Fatalf("expected no bindings or members, got %+v", unit)
	}
	if strings.Count(unit.Routine, "widget.") != 1 {
		t.Fatalf("routine should not build widgets:\n%s", unit.Routine)
	}
	if !strings.Contains(unit.Events, "type ThemeEvents struct{}") {
		t.Fatalf("expected empty events type:\n%s", unit.Events)
	}
}

func TestGenerate_SelectsTypesInRequestOrder(t *testing.T) {
	src := schema.SourceFromFile(filepath.Join("testdata", "panel.go"))
	res := generate(t, New(), Request{Source: src, Types: []string{"Panel", "Theme", "Panel"}, Package: "ui"})

	if len(res.File.Units) != 2 || res.File.Units[0].Struct != "Panel" || res.File.Units[1].Struct != "Theme" {
		t.Fatalf("unexpected units %+v", res.File.Units)
	}
	if !bytes.Contains(res.File.Source, []byte("package ui\n")) {
		t.Fatalf("package override ignored:\n%s", res.File.Source)
	}
	if bytes.Index(res.File.Source, []byte("func DrawPanel")) > bytes.Index(res.File.Source, []byte("func DrawTheme")) {
		t.Fatalf("units out of request order")
	}
}

func TestGenerate_Diagnostics(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind diag.Kind
		pos  string
		msg  string
	}{
		{
			name: "multiple directives",
			src:  "package demo\n\ntype Twice struct {\n\t//gui:slider(min=0, max=1)\n\tLevel float32 `gui:\"drag\"`\n}\n",
			kind: diag.MultipleDirectives,
			pos:  "twice.go:5:22",
		},
		{
			name: "missing min before max",
			src:  "package demo\n\ntype Range struct {\n\tLevel float32 `gui:\"slider(label='x')\"`\n}\n",
			kind: diag.MissingRequiredParameter,
			msg:  "missing required parameter 'min' for widget kind 'slider'",
		},
		{
			name: "type incompatible",
			src:  "package demo\n\ntype Wrong struct {\n\tSpeed float32 `gui:\"combobox\"`\n}\n",
			kind: diag.TypeIncompatible,
			msg:  "widget kind 'combobox' cannot bind field 'Speed' of category NumericScalar",
		},
		{
			name: "index out of range",
			src:  "package demo\n\ntype Pick struct {\n\tModes [3]string `gui:\"combobox(label='choose one', selected=5)\"`\n}\n",
			kind: diag.IndexOutOfRange,
			msg:  "selected index 5 out of range [0, 3) for field 'Modes'",
		},
		{
			name: "unknown kind",
			src:  "package demo\n\ntype Typo struct {\n\tLevel float32 `gui:\"slidr(min=0, max=1)\"`\n}\n",
			kind: diag.UnsupportedWidgetKind,
			msg:  "did you mean 'slider'?",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name := "twice.go"
			err := generateErr(t, name, tc.src)
			if diag.KindOf(err) != tc.kind {
				t.Fatalf("expected %v, got %v (%v)", tc.kind, diag.KindOf(err), err)
			}
			if tc.pos != "" && !strings.HasPrefix(err.Error(), tc.pos+":") {
				t.Fatalf("expected diagnostic at %s, got %v", tc.pos, err)
			}
			if tc.msg != "" && !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected %q in %v", tc.msg, err)
			}
		})
	}
}

func TestAnalyze_FirstDiagnosticInFieldOrder(t *testing.T) {
	src := "package demo\n\ntype Bad struct {\n" +
		"\tA float32 `gui:\"drag\"`\n" +
		"\tB float32 `gui:\"input(nope=1)\"`\n" +
		"\tC float32 `gui:\"combobox\"`\n" +
		"\tD bool `gui:\"slider\"`\n" +
		"\tE float32 `gui:\"drag(min=)\"`\n" +
		"}\n"
	for i := 0; i < 20; i++ {
		err := generateErr(t, "bad.go", src, WithConcurrency(8))
		if diag.KindOf(err) != diag.UnrecognizedParameter || !strings.HasPrefix(err.Error(), "bad.go:5:") {
			t.Fatalf("run %d: expected the diagnostic of field B, got %v", i, err)
		}
	}
}

func TestGenerate_RequestErrors(t *testing.T) {
	src := schema.SourceFromFile(filepath.Join("testdata", "panel.go"))

	_, err := New().Generate(context.Background(), Request{Source: src, Types: []string{"Panle"}})
	if err == nil || !strings.Contains(err.Error(), "did you mean 'Panel'?") {
		t.Fatalf("expected unknown type with suggestion, got %v", err)
	}

	_, err = New().Generate(context.Background(), Request{Source: src, Format: "protobuf"})
	if err == nil || !strings.Contains(err.Error(), `adapter "protobuf" not found`) {
		t.Fatalf("expected unknown adapter error, got %v", err)
	}

	_, err = New().Generate(context.Background(), Request{})
	if err == nil {
		t.Fatalf("expected missing source error")
	}

	plain := schema.SourceFromBytes("plain.go", []byte("package demo\n\ntype P struct{ A int }\n"))
	_, err = New().Generate(context.Background(), Request{Source: plain})
	if err == nil || !strings.Contains(err.Error(), "no annotated structs") {
		t.Fatalf("expected no annotated structs error, got %v", err)
	}

	_, err = New().Generate(context.Background(), Request{Source: schema.SourceFromBytes("notes.txt", []byte("hello"))})
	if err == nil || !strings.Contains(err.Error(), "unable to detect") {
		t.Fatalf("expected detection failure, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{Source: src}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_PreparsedSchemaAndExplicitFormat(t *testing.T) {
	doc := testsupport.LoadSchema(t, filepath.Join("testdata", "panel.yaml"))
	fromSchema := generate(t, New(), Request{Schema: &doc})

	fromFormat := generate(t, New(), Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "panel.yaml")),
		Format: "Document",
	})
	if fromFormat.Adapter != "document" {
		t.Fatalf("unexpected adapter %q", fromFormat.Adapter)
	}
	if !bytes.Equal(fromSchema.File.Source, fromFormat.File.Source) {
		t.Fatalf("outputs differ:\n%s", testsupport.CompareGolden(string(fromSchema.File.Source), string(fromFormat.File.Source)))
	}
}

func TestGenerate_EmitterOptionsAndInitialiseError(t *testing.T) {
	src := schema.SourceFromFile(filepath.Join("testdata", "panel.go"))
	res := generate(t, New(WithEmitterOptions(
		emitter.WithToolkit("example.com/imgui", "gui"),
		emitter.WithEventsSuffix("Changes"),
	)), Request{Source: src})
	if !bytes.Contains(res.File.Source, []byte(`import gui "example.com/imgui"`)) ||
		!bytes.Contains(res.File.Source, []byte("type PanelChanges struct")) {
		t.Fatalf("emitter options not applied:\n%s", res.File.Source)
	}

	broken := New(WithEmitterOptions(emitter.WithToolkit("example.com/x", "not-an-ident")))
	if _, err := broken.Generate(context.Background(), Request{Source: src}); err == nil || !strings.HasPrefix(err.Error(), "compiler: ") {
		t.Fatalf("expected initialise error, got %v", err)
	}
}

func TestGenerate_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(WithLogger(zap.New(core)))
	generate(t, c, Request{Source: schema.SourceFromFile(filepath.Join("testdata", "panel.go"))})

	summary := logs.FilterMessage("generated widget routines").All()
	if len(summary) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(summary))
	}
	fields := summary[0].ContextMap()
	if fields["bindings"] != int64(2) || fields["structs"] != int64(1) {
		t.Fatalf("unexpected summary fields %v", fields)
	}
	if bound := logs.FilterMessage("field bound").Len(); bound != 2 {
		t.Fatalf("expected 2 field events, got %d", bound)
	}
}

func TestExtract(t *testing.T) {
	doc, err := New().Extract(context.Background(), Request{Source: schema.SourceFromFile(filepath.Join("testdata", "panel.go"))})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if doc.Package != "panel" || len(doc.Structs) != 2 {
		t.Fatalf("unexpected schema %+v", doc)
	}
	if names := doc.AnnotatedNames(); len(names) != 1 || names[0] != "Panel" {
		t.Fatalf("unexpected annotated structs %v", names)
	}
}

func TestGenerate_GeneratedNamesMustBeFree(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "routine already declared",
			src:  "package demo\n\ntype Knob struct {\n\tLevel float32 `gui:\"drag\"`\n}\n\nfunc DrawKnob() {}\n",
			msg:  "compiler: clash.go:3:6: DrawKnob generated for Knob is already declared in clash.go",
		},
		{
			name: "events type already declared",
			src:  "package demo\n\ntype Knob struct {\n\tLevel float32 `gui:\"drag\"`\n}\n\ntype KnobEvents struct{}\n",
			msg:  "compiler: clash.go:3:6: KnobEvents generated for Knob is already declared in clash.go",
		},
		{
			name: "generated names collide",
			src: "package demo\n\ntype A struct {\n\tLevel float32 `gui:\"drag\"`\n}\n\n" +
				"type NewA struct {\n\tLevel float32 `gui:\"drag\"`\n}\n",
			msg: "compiler: clash.go:7:6: NewAEvents generated for NewA collides with the code generated for A",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := generateErr(t, "clash.go", tc.src)
			if err.Error() != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, err.Error())
			}
		})
	}

	// Only the selected structs generate code.
	src := "package demo\n\ntype Knob struct {\n\tLevel float32 `gui:\"drag\"`\n}\n\n" +
		"type Dial struct {\n\tLevel float32 `gui:\"drag\"`\n}\n\nfunc DrawDial() {}\n"
	res := generate(t, New(), Request{Source: schema.SourceFromBytes("clash.go", []byte(src)), Types: []string{"Knob"}})
	if len(res.File.Units) != 1 || res.File.Units[0].Struct != "Knob" {
		t.Fatalf("expected Knob only, got %+v", res.File.Units)
	}
}
