package panel

// Theme carries no directives and is skipped unless requested.
type Theme struct {
	Accent string
}

type Panel struct {
	Speed float32 `json:"speed" gui:"drag(label='Speed', min=0.0, max=10.0)"`
	Notes string  `json:"notes"`
	//gui:combobox(label='choose one', selected=1)
	Modes [3]string
}
