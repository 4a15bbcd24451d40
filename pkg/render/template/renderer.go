package template

import (
	"io"
)

// TemplateRenderer is the seam the emitter renders through.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// GlobalContext seeds values visible to every later render.
	GlobalContext(data any) error
}
