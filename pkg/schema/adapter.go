package schema

import "context"

// Adapter extracts a Schema from one kind of source (Go code, schema
// documents, OpenAPI documents).
type Adapter interface {
	Name() string
	// Detect reports whether the adapter understands the source. raw is nil
	// for directory sources.
	Detect(src Source, raw []byte) bool
	Extract(ctx context.Context, src Source) (Schema, error)
}
