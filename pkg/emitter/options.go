package emitter

import (
	"strings"

	"github.com/goliatone/go-guigen/pkg/render/template"
)

// Default toolkit the generated routines import.
const (
	DefaultToolkitImport = "github.com/goliatone/go-guigen/pkg/widget"
	DefaultToolkitName   = "widget"
	DefaultEventsSuffix  = "Events"
)

// Option configures an Emitter.
type Option func(*Emitter)

// WithToolkit selects the package providing the widget build operations.
// An empty name uses the last element of the import path.
func WithToolkit(importPath, name string) Option {
	return func(e *Emitter) {
		importPath = strings.TrimSpace(importPath)
		if importPath == "" {
			return
		}
		e.toolkitImport = importPath
		e.toolkitName = strings.TrimSpace(name)
	}
}

// WithEventsSuffix overrides the suffix of the synthesized events type.
func WithEventsSuffix(suffix string) Option {
	return func(e *Emitter) {
		if trimmed := strings.TrimSpace(suffix); trimmed != "" {
			e.eventsSuffix = trimmed
		}
	}
}

// WithTemplateDir overlays the bundled templates with the .tpl files found
// in dir; templates missing there fall back to the bundled ones. Ignored
// when WithRenderer is set.
func WithTemplateDir(dir string) Option {
	return func(e *Emitter) {
		e.templateDir = strings.TrimSpace(dir)
	}
}

// WithRenderer swaps the template engine. The renderer must resolve the
// binding, events, routine and file templates.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(e *Emitter) {
		if renderer != nil {
			e.renderer = renderer
		}
	}
}
