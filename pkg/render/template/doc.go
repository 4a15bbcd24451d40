// Package template defines the engine contract used to render generated Go
// source from named templates and inline template strings.
package template
