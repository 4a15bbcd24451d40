package compiler

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-guigen/pkg/emitter"
	"github.com/goliatone/go-guigen/pkg/widgets"
)

// Option customises the compiler configuration.
type Option func(*Compiler)

// WithLogger routes progress and summary events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithRegistry replaces the built-in widget-kind registry.
func WithRegistry(registry *widgets.Registry) Option {
	return func(c *Compiler) {
		c.registry = registry
	}
}

// WithAdapters replaces the schema adapter registry.
func WithAdapters(adapters *AdapterRegistry) Option {
	return func(c *Compiler) {
		c.adapters = adapters
	}
}

// WithConcurrency analyses up to n fields of a struct at once. Values below
// two keep analysis sequential.
func WithConcurrency(n int) Option {
	return func(c *Compiler) {
		c.concurrency = n
	}
}

// WithEmitterOptions forwards options to the artifact emitter.
func WithEmitterOptions(options ...emitter.Option) Option {
	return func(c *Compiler) {
		c.emitterOptions = append(c.emitterOptions, options...)
	}
}
