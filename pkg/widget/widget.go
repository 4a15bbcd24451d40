// Package widget is the toolkit surface targeted by generated Draw
// routines. Every build operation forwards to the Backend attached to the
// Context, which owns the actual drawing.
package widget

// Option is an optional widget parameter. The zero value is None.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some wraps a set value.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Valid: true}
}

// None is the absent value; the backend applies its own default.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Or returns the wrapped value or fallback when absent.
func (o Option[T]) Or(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// Selection is the index picked in a combo box during one pass.
type Selection int

// NoSelection reports that nothing was picked.
const NoSelection Selection = -1

// Picked reports whether an item was chosen.
func (s Selection) Picked() bool {
	return s != NoSelection
}

type SimpleParams struct {
	Label string
}

type InputParams struct {
	Label     string
	Precision Option[int32]
	Step      Option[float32]
	StepFast  Option[float32]
}

type SliderParams struct {
	Label   string
	Display Option[string]
	Min     float32
	Max     float32
}

type DragParams struct {
	Label   string
	Display Option[string]
	Min     Option[float32]
	Max     Option[float32]
	Speed   Option[float32]
	Power   Option[float32]
}

type ComboboxParams struct {
	Label    string
	Selected int
}

type CheckboxParams struct {
	Label string
}

type ProgressParams struct {
	Label   string
	Overlay Option[string]
}

type ColorEditParams struct {
	Label string
	Alpha Option[int]
}

// Backend draws widgets. value is a pointer to a scalar field or a slice
// over an array field.
type Backend interface {
	Simple(value any, p SimpleParams) bool
	Input(value any, p InputParams) bool
	Slider(value any, p SliderParams) bool
	Drag(value any, p DragParams) bool
	Combobox(items []string, p ComboboxParams) Selection
	Checkbox(value *bool, p CheckboxParams) bool
	Progress(value any, p ProgressParams) bool
	ColorEdit(value []float32, p ColorEditParams) bool
}

// Context is the per-frame UI handle passed to generated Draw routines.
type Context struct {
	Backend Backend
}

// NewContext wraps a backend.
func NewContext(backend Backend) *Context {
	return &Context{Backend: backend}
}

func Simple(ui *Context, value any, p SimpleParams) bool {
	return ui.Backend.Simple(value, p)
}

func Input(ui *Context, value any, p InputParams) bool {
	return ui.Backend.Input(value, p)
}

func Slider(ui *Context, value any, p SliderParams) bool {
	return ui.Backend.Slider(value, p)
}

func Drag(ui *Context, value any, p DragParams) bool {
	return ui.Backend.Drag(value, p)
}

func Combobox(ui *Context, items []string, p ComboboxParams) Selection {
	return ui.Backend.Combobox(items, p)
}

func Checkbox(ui *Context, value *bool, p CheckboxParams) bool {
	return ui.Backend.Checkbox(value, p)
}

func Progress(ui *Context, value any, p ProgressParams) bool {
	return ui.Backend.Progress(value, p)
}

func ColorEdit(ui *Context, value []float32, p ColorEditParams) bool {
	return ui.Backend.ColorEdit(value, p)
}
