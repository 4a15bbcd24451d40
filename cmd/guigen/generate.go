package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-guigen/internal/prompt"
	"github.com/goliatone/go-guigen/pkg/compiler"
	"github.com/goliatone/go-guigen/pkg/emitter"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

type generateFlags struct {
	source       string
	format       string
	output       string
	pkg          string
	types        []string
	toolkit      string
	toolkitName  string
	eventsSuffix string
	catalogues   []string
	templates    string
	concurrency  int
	interactive  bool
	force        bool
}

func (f *generateFlags) bind(cmd *cobra.Command, withOutput bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", "", "Go file, package directory, schema document or OpenAPI document (default \".\")")
	flags.StringVar(&f.format, "format", "", "schema adapter: go, document or openapi (default: detect)")
	flags.StringArrayVarP(&f.types, "type", "t", nil, "struct to generate; repeat for several (default: every annotated struct)")
	flags.StringVar(&f.pkg, "package", "", "package clause of the generated file (default: the source package)")
	flags.StringVar(&f.toolkit, "toolkit", "", "import path of the widget toolkit")
	flags.StringVar(&f.toolkitName, "toolkit-name", "", "package name of the widget toolkit")
	flags.StringVar(&f.eventsSuffix, "events-suffix", "", "suffix of the generated events types")
	flags.StringArrayVar(&f.catalogues, "catalogue", nil, "widget catalogue file or directory; repeatable")
	flags.StringVar(&f.templates, "templates", "", "directory of .tpl files overriding the bundled templates")
	flags.IntVar(&f.concurrency, "concurrency", 0, "fields analysed in parallel per struct")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for types and before overwriting")
	if withOutput {
		flags.StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
		flags.BoolVar(&f.force, "force", false, "overwrite without asking in interactive mode")
	}
}

// merge fills unset flags from the config file.
func (f generateFlags) merge(cfg Config) generateFlags {
	out := f
	if out.source == "" {
		out.source = cfg.Source
	}
	if out.source == "" {
		out.source = "."
	}
	if out.format == "" {
		out.format = cfg.Format
	}
	if out.output == "" {
		out.output = cfg.Output
	}
	if out.pkg == "" {
		out.pkg = cfg.Package
	}
	if len(out.types) == 0 {
		out.types = cfg.Types
	}
	if out.toolkit == "" {
		out.toolkit = cfg.Toolkit.Import
		if out.toolkitName == "" {
			out.toolkitName = cfg.Toolkit.Name
		}
	}
	if out.eventsSuffix == "" {
		out.eventsSuffix = cfg.EventsSuffix
	}
	if out.templates == "" {
		out.templates = cfg.Templates
	}
	out.catalogues = append(append([]string(nil), cfg.Catalogues...), out.catalogues...)
	if out.concurrency == 0 {
		out.concurrency = cfg.Concurrency
	}
	return out
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the widget routines of the selected structs",
		Example: `  guigen generate --type Settings -o settings_gui.go
  guigen generate --source api.yaml --type Light --type Camera`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, flags.merge(a.config), true)
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile the selected structs and report the first diagnostic without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, flags.merge(a.config), false)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, flags generateFlags, write bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	registry := widgets.NewRegistry()
	for _, path := range flags.catalogues {
		if err := loadCatalogue(registry, path); err != nil {
			return err
		}
	}

	var emitterOptions []emitter.Option
	if flags.toolkit != "" {
		emitterOptions = append(emitterOptions, emitter.WithToolkit(flags.toolkit, flags.toolkitName))
	}
	if flags.eventsSuffix != "" {
		emitterOptions = append(emitterOptions, emitter.WithEventsSuffix(flags.eventsSuffix))
	}
	if flags.templates != "" {
		emitterOptions = append(emitterOptions, emitter.WithTemplateDir(flags.templates))
	}
	gen := compiler.New(
		compiler.WithLogger(a.logger),
		compiler.WithRegistry(registry),
		compiler.WithConcurrency(flags.concurrency),
		compiler.WithEmitterOptions(emitterOptions...),
	)

	src, err := schema.SourceFromPath(flags.source)
	if err != nil {
		return err
	}
	doc, err := gen.Extract(ctx, compiler.Request{Source: src, Format: flags.format})
	if err != nil {
		return err
	}

	types := flags.types
	if len(types) == 0 && flags.interactive {
		if types, err = chooseTypes(ctx, a.prompts, doc); err != nil {
			return err
		}
	}

	res, err := gen.Generate(ctx, compiler.Request{Schema: &doc, Types: types, Package: flags.pkg})
	if err != nil {
		return err
	}

	if !write {
		bindings := 0
		for _, unit := range res.File.Units {
			bindings += len(unit.Bindings)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d struct(s), %d binding(s)\n", len(res.File.Units), bindings)
		return nil
	}
	return writeOutput(ctx, cmd, a, flags, res.File.Source)
}

func chooseTypes(ctx context.Context, driver prompt.Driver, doc schema.Schema) ([]string, error) {
	names := doc.AnnotatedNames()
	if len(names) < 2 || driver == nil {
		return nil, nil
	}
	picked, err := driver.MultiSelect(ctx, prompt.SelectConfig{
		Message:  "Generate widget routines for:",
		Options:  names,
		Defaults: []int{0},
	})
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(picked))
	for _, idx := range picked {
		types = append(types, names[idx])
	}
	return types, nil
}

func writeOutput(ctx context.Context, cmd *cobra.Command, a *app, flags generateFlags, source []byte) error {
	if flags.output == "" {
		_, err := cmd.OutOrStdout().Write(source)
		return err
	}

	if flags.interactive && !flags.force && a.prompts != nil {
		if _, err := os.Stat(flags.output); err == nil {
			ok, err := a.prompts.Confirm(ctx, prompt.ConfirmConfig{
				Message: fmt.Sprintf("Overwrite %s?", flags.output),
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "kept %s\n", flags.output)
				return nil
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(flags.output, source, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", flags.output)
	return nil
}

func loadCatalogue(registry *widgets.Registry, path string) error {
	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("catalogue: %w", err)
	}
	if info.IsDir() {
		return registry.LoadFS(os.DirFS(path))
	}
	return registry.LoadFile(path)
}
