package widget_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-guigen/pkg/widget"
)

// settings and drawSettings mirror what guigen emits for a two-field
// struct, so the toolkit surface stays in step with the generator.
type settings struct {
	Speed float32
	Tags  [3]string
	Name  string
}

type settingsEvents struct {
	Speed bool
	Tags  widget.Selection
}

func newSettingsEvents() settingsEvents {
	return settingsEvents{
		Speed: false,
		Tags:  widget.NoSelection,
	}
}

const current = 2

func drawSettings(ui *widget.Context, ext *settings) settingsEvents {
	events := newSettingsEvents()
	events.Speed = widget.Drag(ui, &ext.Speed, widget.DragParams{
		Label:   "Speed",
		Display: widget.None[string](),
		Min:     widget.Some[float32](0.0),
		Max:     widget.Some[float32](10.0),
		Speed:   widget.None[float32](),
		Power:   widget.None[float32](),
	})
	if i := int(current); i < 0 || i >= len(ext.Tags) {
		panic("settings.Tags: selected index out of range")
	}
	events.Tags = widget.Combobox(ui, ext.Tags[:], widget.ComboboxParams{
		Label:    "choose one",
		Selected: current,
	})
	return events
}

func TestDraw_DefaultsWithoutInteraction(t *testing.T) {
	rec := &widget.Recorder{}
	events := drawSettings(widget.NewContext(rec), &settings{})

	if events != newSettingsEvents() {
		t.Fatalf("expected default events, got %+v", events)
	}
	if events.Tags.Picked() {
		t.Fatalf("no selection expected")
	}

	want := []widget.Call{
		{Kind: "drag", Label: "Speed", Params: widget.DragParams{
			Label: "Speed",
			Min:   widget.Some[float32](0),
			Max:   widget.Some[float32](10),
		}},
		{Kind: "combobox", Label: "choose one", Params: widget.ComboboxParams{Label: "choose one", Selected: 2}},
	}
	if diff := cmp.Diff(want, rec.Calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDraw_ReportsInteractions(t *testing.T) {
	rec := &widget.Recorder{
		Changed: map[string]bool{"Speed": true},
		Picks:   map[string]widget.Selection{"choose one": 1},
	}
	events := drawSettings(widget.NewContext(rec), &settings{})

	if !events.Speed || events.Tags != 1 {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestOption(t *testing.T) {
	if got := widget.None[float32]().Or(1.5); got != 1.5 {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := widget.Some[float32](3).Or(1.5); got != 3 {
		t.Fatalf("expected value, got %v", got)
	}
	var zero widget.Option[int]
	if zero != widget.None[int]() {
		t.Fatalf("zero option should equal None")
	}
}
