package scene

type Light struct {
	Intensity float32 `gui:"slider(min=0, max=10)"`
	On        bool    `gui:"checkbox"`
}

type Camera struct {
	Fov float32 `gui:"drag(min=10, max=120, speed=0.5)"`
}
