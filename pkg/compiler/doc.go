// Package compiler drives the pipeline: a schema source is extracted by an
// adapter, each annotated field is parsed, resolved and checked, and the
// resulting targets are handed to the emitter.
package compiler
