package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Source identifies where a schema originated so adapters can operate on
// files, package directories or in-memory payloads without leaking
// implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindDir   SourceKind = "dir"
	SourceKindBytes SourceKind = "bytes"
)

// fileSource identifies on-disk documents or Go files.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// dirSource references a Go package directory.
type dirSource struct {
	path string
}

func (s dirSource) Location() string {
	return s.path
}

func (s dirSource) Kind() SourceKind {
	return SourceKindDir
}

// SourceFromDir returns a Source identifying a Go package directory.
func SourceFromDir(path string) Source {
	return dirSource{path: filepath.Clean(path)}
}

// BytesSource carries an in-memory payload under a display name. The name's
// extension drives adapter detection (".go", ".yaml", ".json").
type BytesSource struct {
	name string
	data []byte
}

func (s BytesSource) Location() string {
	return s.name
}

func (s BytesSource) Kind() SourceKind {
	return SourceKindBytes
}

// Data returns a copy of the payload.
func (s BytesSource) Data() []byte {
	return append([]byte(nil), s.data...)
}

// SourceFromBytes returns a Source backed by data.
func SourceFromBytes(name string, data []byte) Source {
	return BytesSource{name: name, data: append([]byte(nil), data...)}
}

// SourceFromPath inspects path and returns a directory or file source.
func SourceFromPath(path string) (Source, error) {
	if path == "" {
		return nil, errors.New("schema: source path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schema: stat source: %w", err)
	}
	if info.IsDir() {
		return SourceFromDir(path), nil
	}
	return SourceFromFile(path), nil
}

// ReadSource returns the payload for file and in-memory sources. Directory
// sources have no single payload and yield nil.
func ReadSource(src Source) ([]byte, error) {
	switch s := src.(type) {
	case nil:
		return nil, errors.New("schema: source is nil")
	case BytesSource:
		return s.Data(), nil
	}
	switch src.Kind() {
	case SourceKindDir:
		return nil, nil
	case SourceKindFile:
		data, err := os.ReadFile(src.Location())
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", src.Location(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
}
