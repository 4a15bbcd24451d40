// Package emitter turns resolved widget tags into Go source: one Draw
// routine per struct plus the events type recording what the routine's
// widgets reported.
package emitter

import (
	"context"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/render/template"
	"github.com/goliatone/go-guigen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-guigen/pkg/schema"
	"github.com/goliatone/go-guigen/pkg/tags"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS returns the bundled templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Target is one struct to emit. Tags parallels Struct.Fields; an
// unannotated field has a zero Tag.
type Target struct {
	Struct schema.Struct
	Tags   []tags.Tag
}

// Binding is the generated statement for one annotated field.
type Binding struct {
	Field     schema.Field
	Tag       tags.Tag
	Statement string
}

// Member is one field of the synthesized events type.
type Member struct {
	Name    string
	Type    string
	Default string
	Doc     string
}

// EventsType is the synthesized interaction-result type of a struct.
type EventsType struct {
	Name        string
	Constructor string
	Members     []Member
}

// Unit is the output for one struct. Events and Routine are formatted
// declarations as they appear in File.Source.
type Unit struct {
	Struct     string
	Draw       string
	EventsType EventsType
	Bindings   []Binding
	Events     string
	Routine    string
}

// File is a complete generated source file.
type File struct {
	Package string
	Source  []byte
	Units   []Unit
}

// Emitter renders targets through the template engine. The toolkit package
// name is seeded into the engine's globals as "toolkit".
type Emitter struct {
	renderer      template.TemplateRenderer
	templateDir   string
	toolkitImport string
	toolkitName   string
	eventsSuffix  string
}

// New builds an emitter. Without WithRenderer it uses the bundled templates,
// overlaid by the files of WithTemplateDir when set.
func New(options ...Option) (*Emitter, error) {
	e := &Emitter{
		toolkitImport: DefaultToolkitImport,
		eventsSuffix:  DefaultEventsSuffix,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.toolkitName == "" {
		e.toolkitName = path.Base(e.toolkitImport)
	}
	if !token.IsIdentifier(e.toolkitName) {
		return nil, fmt.Errorf("emitter: invalid toolkit package name %q", e.toolkitName)
	}
	if e.renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithBaseDir(e.templateDir), gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("emitter: template engine: %w", err)
		}
		e.renderer = engine
	}
	if err := e.renderer.GlobalContext(map[string]any{"toolkit": e.toolkitName}); err != nil {
		return nil, fmt.Errorf("emitter: template globals: %w", err)
	}
	return e, nil
}

// Declared returns the identifiers the emitted code declares for a struct:
// the events type, its constructor and the Draw routine.
func (e *Emitter) Declared(structName string) []string {
	events := structName + e.eventsSuffix
	return []string{events, "New" + events, "Draw" + structName}
}

// Emit renders every target into one file of package pkg. Targets are
// emitted in the order given.
func (e *Emitter) Emit(ctx context.Context, pkg string, targets []Target) (File, error) {
	if !token.IsIdentifier(pkg) {
		return File{}, fmt.Errorf("emitter: invalid package name %q", pkg)
	}

	file := File{Package: pkg}
	units := make([]map[string]any, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return File{}, err
		}
		unit, err := e.EmitUnit(target)
		if err != nil {
			return File{}, err
		}
		file.Units = append(file.Units, unit)
		units = append(units, map[string]any{"events": unit.Events, "routine": unit.Routine})
	}

	rendered, err := e.renderer.RenderTemplate("file", map[string]any{
		"package": pkg,
		"import":  e.importSpec(),
		"units":   units,
	})
	if err != nil {
		return File{}, fmt.Errorf("emitter: render file: %w", err)
	}
	source, err := format.Source([]byte(rendered))
	if err != nil {
		return File{}, fmt.Errorf("emitter: format file: %w", err)
	}
	file.Source = source
	return file, nil
}

// EmitUnit renders the bindings, events type and routine of one struct.
func (e *Emitter) EmitUnit(target Target) (Unit, error) {
	st := target.Struct
	if len(target.Tags) != len(st.Fields) {
		return Unit{}, fmt.Errorf("emitter: struct %s: %d tags for %d fields", st.Name, len(target.Tags), len(st.Fields))
	}

	declared := e.Declared(st.Name)
	eventsName := declared[0]
	unit := Unit{
		Struct: st.Name,
		Draw:   declared[2],
		EventsType: EventsType{
			Name:        eventsName,
			Constructor: declared[1],
		},
	}

	statements := make([]string, 0, len(st.Fields))
	for idx, field := range st.Fields {
		tag := target.Tags[idx]
		if tag.Kind == nil {
			continue
		}
		statement, err := e.binding(st.Name, field, tag)
		if err != nil {
			return Unit{}, err
		}
		unit.Bindings = append(unit.Bindings, Binding{Field: field, Tag: tag, Statement: statement})
		unit.EventsType.Members = append(unit.EventsType.Members, e.member(field, tag))
		statements = append(statements, statement)
	}

	members := make([]map[string]any, 0, len(unit.EventsType.Members))
	for _, m := range unit.EventsType.Members {
		members = append(members, map[string]any{"name": m.Name, "type": m.Type, "default": m.Default, "doc": m.Doc})
	}
	view := map[string]any{
		"name":        st.Name,
		"events":      eventsName,
		"constructor": unit.EventsType.Constructor,
		"draw":        unit.Draw,
		"members":     members,
		"bindings":    statements,
	}

	events, err := e.renderDecl("events", view)
	if err != nil {
		return Unit{}, fmt.Errorf("emitter: struct %s: %w", st.Name, err)
	}
	routine, err := e.renderDecl("routine", view)
	if err != nil {
		return Unit{}, fmt.Errorf("emitter: struct %s: %w", st.Name, err)
	}
	unit.Events = events
	unit.Routine = routine
	return unit, nil
}

func (e *Emitter) renderDecl(name string, view map[string]any) (string, error) {
	rendered, err := e.renderer.RenderTemplate(name, view)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	formatted, err := format.Source([]byte(strings.TrimSpace(rendered) + "\n"))
	if err != nil {
		return "", fmt.Errorf("format %s: %w", name, err)
	}
	return string(formatted), nil
}

type bindingView struct {
	Struct     string      `json:"struct"`
	Field      string      `json:"field"`
	Member     string      `json:"member"`
	Kind       string      `json:"kind"`
	Target     string      `json:"target"`
	Build      string      `json:"build"`
	ParamsType string      `json:"params_type"`
	Label      string      `json:"label"`
	Params     []paramView `json:"params"`
	Guards     []guardView `json:"guards"`
}

type paramView struct {
	Name  string `json:"name"`
	Field string `json:"field"`
	Expr  string `json:"expr"`
}

type guardView struct {
	Param   string `json:"param"`
	Expr    string `json:"expr"`
	Message string `json:"message"`
}

func (e *Emitter) binding(structName string, field schema.Field, tag tags.Tag) (string, error) {
	kind := tag.Kind
	view := bindingView{
		Struct:     structName,
		Field:      field.Name,
		Member:     field.Name,
		Kind:       kind.Name,
		Target:     targetExpr(field),
		Build:      kind.Build,
		ParamsType: kind.ParamsType,
		Label:      tag.Label,
		Params:     make([]paramView, 0, len(tag.Values)),
		Guards:     []guardView{},
	}
	for _, value := range tag.Values {
		if err := e.checkQualifier(value); err != nil {
			return "", fmt.Errorf("emitter: %s.%s: %w", structName, field.Name, err)
		}
		view.Params = append(view.Params, paramView{
			Name:  value.Param.Name,
			Field: value.Param.Field,
			Expr:  e.paramExpr(value),
		})
		if tags.NeedsGuard(value, field) {
			view.Guards = append(view.Guards, guardView{
				Param: value.Param.Name,
				Expr:  value.Lit.GoExpr(),
				Message: fmt.Sprintf("%s.%s: %s index out of range",
					structName, field.Name, value.Param.Name),
			})
		}
	}

	var (
		rendered string
		err      error
	)
	if kind.Template != "" {
		rendered, err = e.renderer.RenderString(kind.Template, view)
	} else {
		rendered, err = e.renderer.RenderTemplate("binding", view)
	}
	if err != nil {
		return "", fmt.Errorf("emitter: %s.%s: render %s binding: %w", structName, field.Name, kind.Name, err)
	}
	return strings.TrimSpace(rendered), nil
}

// checkQualifier rejects qualified words naming a package other than the
// toolkit, the only import of the generated file. Unqualified words must
// resolve in the generated file's own package.
func (e *Emitter) checkQualifier(value tags.Value) error {
	if !value.Set || value.Lit.Kind != directive.LitWord {
		return nil
	}
	qualifier, _, found := strings.Cut(value.Lit.Raw, ".")
	if !found || qualifier == e.toolkitName {
		return nil
	}
	return fmt.Errorf("%s: %s = %s refers to package %s, which the generated file does not import (only %s)",
		value.Lit.Pos, value.Param.Name, value.Lit.Raw, qualifier, e.toolkitName)
}

func (e *Emitter) paramExpr(value tags.Value) string {
	spec := value.Param
	if !value.Set {
		return fmt.Sprintf("%s.None[%s]()", e.toolkitName, spec.GoType)
	}
	expr := value.Lit.GoExpr()
	if spec.Optional() {
		return fmt.Sprintf("%s.Some[%s](%s)", e.toolkitName, spec.GoType, expr)
	}
	return expr
}

func (e *Emitter) member(field schema.Field, tag tags.Tag) Member {
	result := tag.Kind.Result
	member := Member{
		Name:    field.Name,
		Type:    result.Type,
		Default: result.Default,
		Doc:     result.Doc,
	}
	if result.Toolkit {
		member.Type = e.toolkitName + "." + result.Type
		member.Default = e.toolkitName + "." + result.Default
	}
	return member
}

// targetExpr is the mutable operand handed to the build operation: arrays
// are passed as slices sharing the field's storage, everything else by
// pointer.
func targetExpr(field schema.Field) string {
	switch field.Type.Category {
	case schema.NumericArray, schema.FixedStringArray:
		return "ext." + field.Name + "[:]"
	default:
		return "&ext." + field.Name
	}
}

func (e *Emitter) importSpec() string {
	quoted := strconv.Quote(e.toolkitImport)
	if path.Base(e.toolkitImport) == e.toolkitName {
		return quoted
	}
	return e.toolkitName + " " + quoted
}
