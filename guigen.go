// Package guigen compiles `gui` field directives into immediate-mode widget
// routines. The helpers here cover the common calls; pkg/compiler exposes
// the full pipeline.
package guigen

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-guigen/pkg/compiler"
	"github.com/goliatone/go-guigen/pkg/emitter"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

// NewCompiler exposes the compiler constructor from the top-level module.
func NewCompiler(options ...compiler.Option) *compiler.Compiler {
	return compiler.New(options...)
}

// Generate compiles the file or directory at path and returns the generated
// Go source. With no types, every annotated struct is generated.
func Generate(ctx context.Context, path string, types []string, options ...compiler.Option) ([]byte, error) {
	src, err := schema.SourceFromPath(path)
	if err != nil {
		return nil, err
	}
	return generate(ctx, src, types, options)
}

// GenerateSource compiles an in-memory source. The name's extension selects
// the adapter (.go, or .yaml/.json documents).
func GenerateSource(ctx context.Context, name string, data []byte, types []string, options ...compiler.Option) ([]byte, error) {
	return generate(ctx, schema.SourceFromBytes(name, data), types, options)
}

func generate(ctx context.Context, src schema.Source, types []string, options []compiler.Option) ([]byte, error) {
	res, err := compiler.New(options...).Generate(ctx, compiler.Request{Source: src, Types: types})
	if err != nil {
		return nil, err
	}
	return res.File.Source, nil
}

// EmbeddedTemplates exposes the bundled emission templates so callers can
// copy or extend them for emitter.WithRenderer.
func EmbeddedTemplates() fs.FS {
	return emitter.TemplatesFS()
}

// EmbeddedCatalogue exposes the bundled widget catalogue files.
func EmbeddedCatalogue() fs.FS {
	return widgets.EmbeddedFS()
}
