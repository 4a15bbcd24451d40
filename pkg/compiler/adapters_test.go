package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-guigen/pkg/schema"
)

type stubAdapter struct {
	name   string
	detect bool
}

func (s stubAdapter) Name() string { return s.name }

func (s stubAdapter) Detect(schema.Source, []byte) bool { return s.detect }

func (s stubAdapter) Extract(context.Context, schema.Source) (schema.Schema, error) {
	return schema.Schema{}, nil
}

func TestAdapterRegistry(t *testing.T) {
	reg := DefaultAdapters()
	if got := strings.Join(reg.List(), ","); got != "document,go,openapi" {
		t.Fatalf("unexpected adapters %s", got)
	}
	if err := reg.Register(stubAdapter{name: " GO "}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(stubAdapter{name: "  "}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil adapter error")
	}
	if _, err := reg.Get("OpenAPI"); err != nil {
		t.Fatalf("lookup should ignore case: %v", err)
	}
}

func TestAdapterRegistry_AmbiguousDetection(t *testing.T) {
	reg := NewAdapterRegistry()
	reg.MustRegister(stubAdapter{name: "one", detect: true})
	reg.MustRegister(stubAdapter{name: "two", detect: true})

	c := New(WithAdapters(reg))
	_, err := c.Generate(context.Background(), Request{Source: schema.SourceFromBytes("x.any", []byte("x"))})
	if err == nil || !strings.Contains(err.Error(), "multiple adapters matched x.any (one, two)") {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
}
