package widgets

import (
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-guigen/pkg/directive"
	"github.com/goliatone/go-guigen/pkg/schema"
)

//go:embed catalogue/*
var embeddedCatalogue embed.FS

// EmbeddedFS returns the bundled catalogue of additional kinds.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalogue, "catalogue")
	if err != nil {
		panic(err)
	}
	return sub
}

type catalogueFile struct {
	Kinds []catalogueKind `json:"kinds" yaml:"kinds"`
}

type catalogueKind struct {
	Name        string           `json:"name" yaml:"name"`
	Build       string           `json:"build" yaml:"build"`
	ParamsType  string           `json:"params_type" yaml:"params_type"`
	Accepts     []string         `json:"accepts" yaml:"accepts"`
	Operand     string           `json:"operand" yaml:"operand"`
	Params      []catalogueParam `json:"params" yaml:"params"`
	Result      Result           `json:"result" yaml:"result"`
	Template    string           `json:"template" yaml:"template"`
	Description string           `json:"description" yaml:"description"`
}

type catalogueParam struct {
	Name        string   `json:"name" yaml:"name"`
	Field       string   `json:"field" yaml:"field"`
	Type        string   `json:"type" yaml:"type"`
	Literals    []string `json:"literals" yaml:"literals"`
	Required    bool     `json:"required" yaml:"required"`
	Default     string   `json:"default" yaml:"default"`
	Index       bool     `json:"index" yaml:"index"`
	Description string   `json:"description" yaml:"description"`
}

// LoadFS walks fsys and decodes every JSON/YAML catalogue file into kinds.
// Kinds are returned in file order, files in lexical order.
func LoadFS(fsys fs.FS) ([]Kind, error) {
	if fsys == nil {
		return nil, nil
	}

	var kinds []Kind
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogueFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("widgets: read %s: %w", path, err)
		}
		doc, err := parseCatalogue(data, path)
		if err != nil {
			return err
		}
		for idx, raw := range doc.Kinds {
			kind, err := normaliseKind(raw, path, idx)
			if err != nil {
				return err
			}
			kinds = append(kinds, kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kinds, nil
}

// LoadFS registers every kind found in fsys.
func (r *Registry) LoadFS(fsys fs.FS) error {
	kinds, err := LoadFS(fsys)
	if err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := r.Register(kind); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile registers the kinds of one catalogue file on disk.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("widgets: read %s: %w", path, err)
	}
	doc, err := parseCatalogue(data, path)
	if err != nil {
		return err
	}
	for idx, raw := range doc.Kinds {
		kind, err := normaliseKind(raw, path, idx)
		if err != nil {
			return err
		}
		if err := r.Register(kind); err != nil {
			return err
		}
	}
	return nil
}

func parseCatalogue(data []byte, source string) (catalogueFile, error) {
	var doc catalogueFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalogueFile{}, fmt.Errorf("widgets: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return catalogueFile{}, fmt.Errorf("widgets: parse %s: invalid JSON or YAML", source)
}

func normaliseKind(raw catalogueKind, source string, idx int) (Kind, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Kind{}, fmt.Errorf("widgets: file %s kind #%d has no name", source, idx)
	}

	kind := Kind{
		Name:       name,
		Build:      strings.TrimSpace(raw.Build),
		ParamsType: strings.TrimSpace(raw.ParamsType),
		Operand:    strings.TrimSpace(raw.Operand),
		Result:     raw.Result,
		Template:   raw.Template,
		Doc:        sanitizeDescription(raw.Description),
	}
	kind.Result.Doc = sanitizeDescription(raw.Result.Doc)

	for _, category := range raw.Accepts {
		if strings.TrimSpace(category) == "any" {
			kind.Accepts = append(kind.Accepts, anyCategory...)
			continue
		}
		parsed, ok := schema.ParseCategory(strings.TrimSpace(category))
		if !ok {
			return Kind{}, fmt.Errorf("widgets: file %s kind %q: unknown category %q", source, name, category)
		}
		kind.Accepts = append(kind.Accepts, parsed)
	}

	for _, param := range raw.Params {
		spec := ParamSpec{
			Name:     strings.TrimSpace(param.Name),
			Field:    strings.TrimSpace(param.Field),
			GoType:   strings.TrimSpace(param.Type),
			Required: param.Required,
			Default:  strings.TrimSpace(param.Default),
			Index:    param.Index,
			Doc:      sanitizeDescription(param.Description),
		}
		for _, lit := range param.Literals {
			parsed, ok := directive.ParseLitKind(strings.TrimSpace(lit))
			if !ok {
				return Kind{}, fmt.Errorf("widgets: file %s kind %q parameter %q: unknown literal kind %q", source, name, spec.Name, lit)
			}
			spec.Kinds = append(spec.Kinds, parsed)
		}
		kind.Params = append(kind.Params, spec)
	}
	return kind, nil
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription strips markup so catalogue text is safe to place in
// generated comments.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.StrictPolicy()
	})
	clean := html.UnescapeString(descriptionPolicy.Sanitize(trimmed))
	clean = strings.ReplaceAll(clean, "*/", "* /")
	return strings.Join(strings.Fields(clean), " ")
}

func isCatalogueFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
