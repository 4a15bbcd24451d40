package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-guigen/internal/prompt"
	"github.com/goliatone/go-guigen/pkg/diag"
)

type fakePrompts struct {
	picked    []int
	confirm   bool
	confirms  int
	selects   int
	lastNames []string
}

func (f *fakePrompts) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	f.confirms++
	return f.confirm, nil
}

func (f *fakePrompts) MultiSelect(_ context.Context, cfg prompt.SelectConfig) ([]int, error) {
	f.selects++
	f.lastNames = cfg.Options
	return f.picked, nil
}

// run executes the CLI from dir so the default config file lookup is
// scoped to the test.
func run(t *testing.T, dir string, prompts prompt.Driver, args ...string) (string, string, error) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&app{logger: zap.NewNop(), prompts: prompts})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err = root.Execute()
	return stdout.String(), stderr.String(), err
}

func sceneDir(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "scene.go"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "scene.go"), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestGenerateToStdout(t *testing.T) {
	dir := sceneDir(t)
	out, _, err := run(t, dir, nil, "generate", "--type", "Light")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out, "// Code generated by guigen. DO NOT EDIT.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "func DrawLight(") || strings.Contains(out, "func DrawCamera(") {
		t.Fatalf("type selection ignored:\n%s", out)
	}
}

func TestGenerateWritesFileWithConfig(t *testing.T) {
	dir := sceneDir(t)
	config := "source: scene.go\n" +
		"output: scene_gui.go\n" +
		"toolkit:\n  import: example.com/imgui\n" +
		"events_suffix: Changes\n" +
		"concurrency: 2\n"
	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, stderr, err := run(t, dir, nil, "generate")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stderr, "wrote") {
		t.Fatalf("expected write notice, got %q", stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, "scene_gui.go"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{`import "example.com/imgui"`, "type LightChanges struct", "type CameraChanges struct", "imgui.Slider("} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("output missing %q:\n%s", want, data)
		}
	}
}

func TestGenerateInteractive(t *testing.T) {
	dir := sceneDir(t)
	output := filepath.Join(dir, "out.go")
	if err := os.WriteFile(output, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	prompts := &fakePrompts{picked: []int{0}, confirm: false}
	_, stderr, err := run(t, dir, prompts, "generate", "-i", "-o", output)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if prompts.selects != 1 || strings.Join(prompts.lastNames, ",") != "Camera,Light" {
		t.Fatalf("expected a type prompt over Camera,Light, got %d %v", prompts.selects, prompts.lastNames)
	}
	if prompts.confirms != 1 || !strings.Contains(stderr, "kept") {
		t.Fatalf("expected overwrite confirmation, got %d %q", prompts.confirms, stderr)
	}
	if data, _ := os.ReadFile(output); string(data) != "keep" {
		t.Fatalf("declined overwrite still wrote the file")
	}

	prompts.confirm = true
	if _, _, err := run(t, dir, prompts, "generate", "-i", "-o", output); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, _ := os.ReadFile(output)
	if !bytes.Contains(data, []byte("func DrawCamera(")) || bytes.Contains(data, []byte("func DrawLight(")) {
		t.Fatalf("expected only the picked type:\n%s", data)
	}
}

func TestCheckReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	src := "package demo\n\ntype Bad struct {\n\tOn bool `gui:\"slider(min=0, max=1)\"`\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _, err := run(t, dir, nil, "check", "--source", "bad.go")
	if diag.KindOf(err) != diag.TypeIncompatible {
		t.Fatalf("expected TypeIncompatible, got %v", err)
	}

	out, _, err := run(t, sceneDir(t), nil, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "ok: 2 struct(s), 3 binding(s)\n" {
		t.Fatalf("unexpected check summary %q", out)
	}
}

func TestKindsListsCatalogue(t *testing.T) {
	dir := t.TempDir()
	catalogue := "kinds:\n  - name: knob\n    build: Knob\n    params_type: KnobParams\n    accepts: [NumericScalar]\n    params:\n      - name: turns\n        field: Turns\n        type: int32\n        required: true\n    result: {type: bool, default: \"false\"}\n"
	if err := os.WriteFile(filepath.Join(dir, "knob.yaml"), []byte(catalogue), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, _, err := run(t, dir, nil, "kinds", "--catalogue", "knob.yaml")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	for _, want := range []string{"KIND", "slider", "combobox", "FixedStringArray of string", "min*, max*", "knob", "label, turns*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("kinds output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guigen.yaml")
	data := "source: model\ncatalogues: [widgets, /abs/kinds.yaml]\ntypes: [A]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source != filepath.Join(dir, "model") || cfg.Catalogues[0] != filepath.Join(dir, "widgets") || cfg.Catalogues[1] != "/abs/kinds.yaml" {
		t.Fatalf("paths not resolved: %+v", cfg)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("explicit missing config should fail")
	}
	if err := os.WriteFile(path, []byte("concurrency: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("negative concurrency should fail")
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := Config{Source: "a.go", Types: []string{"A"}, Toolkit: ToolkitConfig{Import: "x/y", Name: "z"}, Catalogues: []string{"c1"}}
	merged := generateFlags{types: []string{"B"}, toolkit: "p/q", catalogues: []string{"c2"}}.merge(cfg)
	if merged.source != "a.go" || merged.types[0] != "B" || merged.toolkit != "p/q" || merged.toolkitName != "" {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if strings.Join(merged.catalogues, ",") != "c1,c2" {
		t.Fatalf("catalogues should accumulate, got %v", merged.catalogues)
	}
	if (generateFlags{}).merge(Config{}).source != "." {
		t.Fatalf("source should default to the current directory")
	}
}

func TestGenerateWithTemplateDir(t *testing.T) {
	dir := sceneDir(t)
	routine := "{% autoescape off %}// {{ draw }} is drawn by the studio toolkit.\n" +
		"func {{ draw }}(ui *{{ toolkit }}.Context, ext *{{ name }}) {{ events }} {\n" +
		"\tevents := {{ constructor }}()\n" +
		"{% for b in bindings %}{{ b }}\n{% endfor %}\treturn events\n}\n{% endautoescape %}"
	if err := os.Mkdir(filepath.Join(dir, "tpl"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tpl", "routine.tpl"), []byte(routine), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	out, _, err := run(t, dir, nil, "generate", "--type", "Light", "--templates", "tpl")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "// DrawLight is drawn by the studio toolkit.") || !strings.Contains(out, "type LightEvents struct") {
		t.Fatalf("template override ignored:\n%s", out)
	}

	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte("templates: tpl\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err = run(t, dir, nil, "generate", "--type", "Light")
	if err != nil {
		t.Fatalf("generate with config: %v", err)
	}
	if !strings.Contains(out, "is drawn by the studio toolkit.") {
		t.Fatalf("configured templates ignored:\n%s", out)
	}

	if _, _, err := run(t, dir, nil, "generate", "--templates", "missing"); err == nil {
		t.Fatalf("expected a missing template directory to fail")
	}
}
