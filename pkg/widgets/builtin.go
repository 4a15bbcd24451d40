package widgets

import (
	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
)

// Built-in widget kinds.
const (
	KindSimple   = "simple"
	KindInput    = "input"
	KindSlider   = "slider"
	KindDrag     = "drag"
	KindCombobox = "combobox"
	KindCheckbox = "checkbox"
)

var (
	numeric     = []schema.Category{schema.NumericScalar, schema.NumericArray}
	anyCategory = []schema.Category{schema.Other, schema.NumericScalar, schema.NumericArray, schema.FixedStringArray, schema.Boolean}

	changed = Result{Type: "bool", Default: "false", Doc: "true when the value was edited during the pass"}
)

// Builtins returns fresh copies of the built-in kinds in declaration order.
func Builtins() []Kind {
	return []Kind{
		{
			Name:       KindSimple,
			Build:      "Simple",
			ParamsType: "SimpleParams",
			Accepts:    anyCategory,
			Result:     changed,
			Doc:        "Default control for the field's type.",
		},
		{
			Name:       KindInput,
			Build:      "Input",
			ParamsType: "InputParams",
			Params: []ParamSpec{
				{Name: "precision", Field: "Precision", GoType: "int32", Doc: "Decimal places shown."},
				{Name: "step", Field: "Step", GoType: "float32", Doc: "Increment of the step buttons."},
				{Name: "step_fast", Field: "StepFast", GoType: "float32", Doc: "Increment while the fast modifier is held."},
			},
			Accepts: numeric,
			Result:  changed,
			Doc:     "Numeric text input with optional step buttons.",
		},
		{
			Name:       KindSlider,
			Build:      "Slider",
			ParamsType: "SliderParams",
			Params: []ParamSpec{
				{Name: "display", Field: "Display", GoType: "string", Doc: "Printf-style value format."},
				{Name: "min", Field: "Min", GoType: "float32", Required: true, Doc: "Lower bound."},
				{Name: "max", Field: "Max", GoType: "float32", Required: true, Doc: "Upper bound."},
			},
			Accepts: numeric,
			Result:  changed,
			Doc:     "Bounded slider.",
		},
		{
			Name:       KindDrag,
			Build:      "Drag",
			ParamsType: "DragParams",
			Params: []ParamSpec{
				{Name: "display", Field: "Display", GoType: "string", Doc: "Printf-style value format."},
				{Name: "min", Field: "Min", GoType: "float32", Doc: "Lower bound."},
				{Name: "max", Field: "Max", GoType: "float32", Doc: "Upper bound."},
				{Name: "speed", Field: "Speed", GoType: "float32", Doc: "Value change per pixel dragged."},
				{Name: "power", Field: "Power", GoType: "float32", Doc: "Curve exponent."},
			},
			Accepts: numeric,
			Result:  changed,
			Doc:     "Drag-to-edit numeric control.",
		},
		{
			Name:       KindCombobox,
			Build:      "Combobox",
			ParamsType: "ComboboxParams",
			Params: []ParamSpec{
				{
					Name:    "selected",
					Field:   "Selected",
					GoType:  "int",
					Default: "0",
					Index:   true,
					Kinds:   []directive.LitKind{directive.LitInt, directive.LitWord},
					Doc:     "Item highlighted when the combo opens.",
				},
			},
			Accepts: []schema.Category{schema.FixedStringArray},
			Operand: "string",
			Result: Result{
				Type:    "Selection",
				Default: "NoSelection",
				Toolkit: true,
				Doc:     "index picked during the pass, NoSelection otherwise",
			},
			Doc: "Combo box listing the strings of a fixed-size array.",
		},
		{
			Name:       KindCheckbox,
			Build:      "Checkbox",
			ParamsType: "CheckboxParams",
			Accepts:    []schema.Category{schema.Boolean},
			Operand:    "bool",
			Result:     Result{Type: "bool", Default: "false", Doc: "true when the box was toggled during the pass"},
			Doc:        "Boolean check box.",
		},
	}
}

func (r *Registry) registerBuiltins() {
	for _, kind := range Builtins() {
		r.MustRegister(kind)
	}
}
