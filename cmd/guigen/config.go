package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".guigen.yaml"

// Config mirrors .guigen.yaml. Relative paths are resolved against the
// directory holding the file. Flags take precedence over every field.
type Config struct {
	Source       string        `yaml:"source"`
	Format       string        `yaml:"format"`
	Output       string        `yaml:"output"`
	Package      string        `yaml:"package"`
	Types        []string      `yaml:"types"`
	Toolkit      ToolkitConfig `yaml:"toolkit"`
	EventsSuffix string        `yaml:"events_suffix"`
	Catalogues   []string      `yaml:"catalogues"`
	Templates    string        `yaml:"templates"`
	Concurrency  int           `yaml:"concurrency"`
}

// ToolkitConfig names the package the generated code imports.
type ToolkitConfig struct {
	Import string `yaml:"import"`
	Name   string `yaml:"name"`
}

// loadConfig reads path, or the default file when path is empty. A missing
// default file yields the zero Config.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Concurrency < 0 {
		return Config{}, fmt.Errorf("config: %s: concurrency must not be negative", path)
	}

	base := filepath.Dir(path)
	cfg.Source = resolvePath(base, cfg.Source)
	cfg.Output = resolvePath(base, cfg.Output)
	cfg.Templates = resolvePath(base, cfg.Templates)
	for i, catalogue := range cfg.Catalogues {
		cfg.Catalogues[i] = resolvePath(base, catalogue)
	}
	return cfg, nil
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
