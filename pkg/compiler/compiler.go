package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-guigen/pkg/diag"
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/emitter"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/tags"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

// Compiler turns annotated structs into rendering routines and events types.
// Its configuration is fixed after New, so one value may serve concurrent
// Generate calls.
type Compiler struct {
	logger         *zap.Logger
	registry       *widgets.Registry
	adapters       *AdapterRegistry
	concurrency    int
	emitterOptions []emitter.Option

	resolver      *tags.Resolver
	emitter       *emitter.Emitter
	initialiseErr error
}

// New constructs a Compiler. Missing dependencies get the built-in
// implementations; construction errors surface from the first Generate.
func New(options ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	return c
}

func (c *Compiler) applyDefaults() {
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.registry == nil {
		c.registry = widgets.NewRegistry()
	}
	if c.adapters == nil {
		c.adapters = DefaultAdapters()
	}
	c.resolver = tags.NewResolver(c.registry)

	e, err := emitter.New(c.emitterOptions...)
	if err != nil {
		c.initialiseErr = fmt.Errorf("compiler: %w", err)
		return
	}
	c.emitter = e
}

// Registry exposes the widget kinds the compiler resolves against.
func (c *Compiler) Registry() *widgets.Registry {
	return c.registry
}

// Request describes one generation run.
type Request struct {
	// Source locates the schema. Ignored when Schema is set.
	Source schema.Source

	// Schema bypasses extraction for callers holding a schema already.
	Schema *schema.Schema

	// Format names the adapter to use. Empty means detect from the source.
	Format string

	// Types selects the structs to generate, in output order. Empty selects
	// every annotated struct in declaration order.
	Types []string

	// Package overrides the package clause of the generated file.
	Package string
}

// Result carries the generated file and what it was generated from.
type Result struct {
	File    emitter.File
	Schema  schema.Schema
	Adapter string
}

// Generate extracts the schema, analyses the selected structs and emits one
// file. The first diagnostic in declaration order aborts the run.
func (c *Compiler) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("compiler: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if c.initialiseErr != nil {
		return Result{}, c.initialiseErr
	}

	doc, adapterName, err := c.resolveSchema(ctx, req)
	if err != nil {
		return Result{}, err
	}
	structs, err := selectStructs(doc, req.Types)
	if err != nil {
		return Result{}, err
	}
	if err := c.checkDeclared(doc, structs); err != nil {
		return Result{}, err
	}

	targets := make([]emitter.Target, 0, len(structs))
	for _, st := range structs {
		target, err := c.Analyze(ctx, st)
		if err != nil {
			return Result{}, err
		}
		targets = append(targets, target)
	}

	pkg := strings.TrimSpace(req.Package)
	if pkg == "" {
		pkg = doc.Package
	}
	file, err := c.emitter.Emit(ctx, pkg, targets)
	if err != nil {
		return Result{}, err
	}

	bindings := 0
	for _, unit := range file.Units {
		bindings += len(unit.Bindings)
	}
	c.logger.Info("generated widget routines",
		zap.String("source", doc.Source),
		zap.String("package", pkg),
		zap.Int("structs", len(file.Units)),
		zap.Int("bindings", bindings),
		zap.Int("bytes", len(file.Source)),
	)
	return Result{File: file, Schema: doc, Adapter: adapterName}, nil
}

// Extract runs the adapter stage alone, for callers that inspect the schema
// before choosing types.
func (c *Compiler) Extract(ctx context.Context, req Request) (schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	doc, _, err := c.resolveSchema(ctx, req)
	return doc, err
}

// Analyze parses, resolves and checks every field of st. Tags line up with
// st.Fields; fields without a directive get the zero Tag.
func (c *Compiler) Analyze(ctx context.Context, st schema.Struct) (emitter.Target, error) {
	if c.initialiseErr != nil {
		return emitter.Target{}, c.initialiseErr
	}
	c.logger.Debug("analysing struct", zap.String("struct", st.Name), zap.Int("fields", len(st.Fields)))

	target := emitter.Target{Struct: st, Tags: make([]tags.Tag, len(st.Fields))}
	if c.concurrency < 2 || len(st.Fields) < 2 {
		for idx, field := range st.Fields {
			if err := ctx.Err(); err != nil {
				return emitter.Target{}, err
			}
			tag, err := c.analyzeField(st.Name, field)
			if err != nil {
				return emitter.Target{}, err
			}
			target.Tags[idx] = tag
		}
		return target, nil
	}

	// Diagnostics are kept per index so the reported one does not depend on
	// scheduling.
	errs := make([]error, len(st.Fields))
	var group errgroup.Group
	group.SetLimit(c.concurrency)
	for idx, field := range st.Fields {
		idx, field := idx, field
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			target.Tags[idx], errs[idx] = c.analyzeField(st.Name, field)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return emitter.Target{}, err
	}
	for _, err := range errs {
		if err != nil {
			return emitter.Target{}, err
		}
	}
	return target, nil
}

func (c *Compiler) analyzeField(structName string, field schema.Field) (tags.Tag, error) {
	node, err := directive.Parse(field.Directives)
	if err != nil {
		return tags.Tag{}, err
	}
	tag, ok, err := c.resolver.Resolve(node, field)
	if err != nil || !ok {
		return tags.Tag{}, err
	}
	if err := tags.Check(tag, field); err != nil {
		return tags.Tag{}, err
	}
	c.logger.Debug("field bound",
		zap.String("struct", structName),
		zap.String("field", field.Name),
		zap.String("kind", tag.KindName()),
		zap.Stringer("at", tag.Pos),
	)
	return tag, nil
}

func (c *Compiler) resolveSchema(ctx context.Context, req Request) (schema.Schema, string, error) {
	if req.Schema != nil {
		return *req.Schema, "", nil
	}
	if req.Source == nil {
		return schema.Schema{}, "", errors.New("compiler: source or schema is required")
	}

	adapter, err := c.resolveAdapter(req)
	if err != nil {
		return schema.Schema{}, "", err
	}
	doc, err := adapter.Extract(ctx, req.Source)
	if err != nil {
		if diag.KindOf(err) != diag.KindUnknown || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return schema.Schema{}, "", err
		}
		return schema.Schema{}, "", fmt.Errorf("compiler: extract %s: %w", req.Source.Location(), err)
	}
	if doc.Source == "" {
		doc.Source = req.Source.Location()
	}
	c.logger.Debug("schema extracted",
		zap.String("adapter", adapter.Name()),
		zap.String("source", doc.Source),
		zap.Int("structs", len(doc.Structs)),
	)
	return doc, adapter.Name(), nil
}

func (c *Compiler) resolveAdapter(req Request) (schema.Adapter, error) {
	if format := strings.TrimSpace(req.Format); format != "" {
		return c.adapters.Get(format)
	}

	var raw []byte
	if req.Source.Kind() != schema.SourceKindDir {
		data, err := schema.ReadSource(req.Source)
		if err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
		raw = data
	}

	matches := c.adapters.Detect(req.Source, raw)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("compiler: unable to detect the format of %s", req.Source.Location())
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("compiler: multiple adapters matched %s (%s), specify a format", req.Source.Location(), adapterNames(matches))
	}
}

// checkDeclared rejects generated names that clash with a declaration of the
// source package or with each other.
func (c *Compiler) checkDeclared(doc schema.Schema, structs []schema.Struct) error {
	owners := make(map[string]string, 3*len(structs))
	for _, st := range structs {
		for _, name := range c.emitter.Declared(st.Name) {
			if doc.Declared(name) {
				return fmt.Errorf("compiler: %s: %s generated for %s is already declared in %s", st.Pos, name, st.Name, doc.Source)
			}
			if owner, dup := owners[name]; dup {
				return fmt.Errorf("compiler: %s: %s generated for %s collides with the code generated for %s", st.Pos, name, st.Name, owner)
			}
			owners[name] = st.Name
		}
	}
	return nil
}

func selectStructs(doc schema.Schema, names []string) ([]schema.Struct, error) {
	if len(names) == 0 {
		var out []schema.Struct
		for _, st := range doc.Structs {
			if st.Annotated() {
				out = append(out, st)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("compiler: %s declares no annotated structs", doc.Source)
		}
		return out, nil
	}

	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	structs, missing := doc.Select(unique...)
	if len(missing) > 0 {
		candidates := make([]string, 0, len(doc.Structs))
		for _, st := range doc.Structs {
			candidates = append(candidates, st.Name)
		}
		msg := fmt.Sprintf("compiler: unknown type %s in %s", strings.Join(missing, ", "), doc.Source)
		if hint := diag.SuggestFrom(missing[0], candidates, 2); hint != "" {
			msg += " (" + hint + ")"
		}
		return nil, errors.New(msg)
	}
	return structs, nil
}
