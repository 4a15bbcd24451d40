package widget

import "fmt"

// Call is one build operation captured by a Recorder.
type Call struct {
	Kind   string
	Label  string
	Params any
}

// Recorder is a Backend that records every call and replays scripted
// results. It is meant for tests of generated routines.
type Recorder struct {
	Calls []Call
	// Changed lists labels whose build operation reports an interaction.
	Changed map[string]bool
	// Picks maps combo box labels to the index they report.
	Picks map[string]Selection
}

var _ Backend = (*Recorder)(nil)

func (r *Recorder) record(kind, label string, p any) bool {
	r.Calls = append(r.Calls, Call{Kind: kind, Label: label, Params: p})
	return r.Changed[label]
}

func (r *Recorder) Simple(_ any, p SimpleParams) bool {
	return r.record("simple", p.Label, p)
}

func (r *Recorder) Input(_ any, p InputParams) bool {
	return r.record("input", p.Label, p)
}

func (r *Recorder) Slider(_ any, p SliderParams) bool {
	return r.record("slider", p.Label, p)
}

func (r *Recorder) Drag(_ any, p DragParams) bool {
	return r.record("drag", p.Label, p)
}

func (r *Recorder) Combobox(items []string, p ComboboxParams) Selection {
	r.record("combobox", p.Label, p)
	if pick, ok := r.Picks[p.Label]; ok {
		if pick != NoSelection && int(pick) >= len(items) {
			panic(fmt.Sprintf("widget: scripted pick %d out of range for %q", pick, p.Label))
		}
		return pick
	}
	return NoSelection
}

func (r *Recorder) Checkbox(_ *bool, p CheckboxParams) bool {
	return r.record("checkbox", p.Label, p)
}

func (r *Recorder) Progress(_ any, p ProgressParams) bool {
	return r.record("progress", p.Label, p)
}

func (r *Recorder) ColorEdit(_ []float32, p ColorEditParams) bool {
	return r.record("color", p.Label, p)
}
