package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project represents the top-level jinko.yaml configuration.
type Project struct {
	// MaxDepth bounds nested function calls before StackOverflow.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// IncludePaths are searched, in order, after the including module's own
	// directory. Relative entries are resolved against jinko.yaml.
	IncludePaths []string `yaml:"include_paths,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	Test TestConfig `yaml:"test,omitempty"`
}

type TestConfig struct {
	// FailFast stops `jinko test` at the first failing test.
	FailFast bool `yaml:"fail_fast,omitempty"`
}

var (
	colorModes = map[string]bool{"auto": true, "always": true, "never": true}
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// DefaultProject is used when no jinko.yaml is found.
func DefaultProject() *Project {
	p := &Project{}
	p.setDefaults()
	return p
}

// LoadProject reads and parses a jinko.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses jinko.yaml content from bytes.
// The path argument is used for error messages and relative include paths.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()

	dir := filepath.Dir(path)
	for i, inc := range p.IncludePaths {
		if !filepath.IsAbs(inc) {
			p.IncludePaths[i] = filepath.Join(dir, inc)
		}
	}
	return &p, nil
}

// FindProject searches for jinko.yaml starting from dir and walking up
// to parent directories. Returns an empty path and nil error if none exists.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ProjectFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// DiscoverProject loads the jinko.yaml governing dir, or the defaults.
func DiscoverProject(dir string) (*Project, string, error) {
	path, err := FindProject(dir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultProject(), "", nil
	}
	p, err := LoadProject(path)
	if err != nil {
		return nil, path, err
	}
	return p, path, nil
}

// validate checks the configuration for semantic errors.
func (p *Project) validate(path string) error {
	if p.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must be positive, got %d", path, p.MaxDepth)
	}
	if p.Color != "" && !colorModes[p.Color] {
		return fmt.Errorf("%s: color must be one of auto, always, never, got %q", path, p.Color)
	}
	if p.LogLevel != "" && !logLevels[p.LogLevel] {
		return fmt.Errorf("%s: log_level must be one of debug, info, warn, error, got %q", path, p.LogLevel)
	}
	for i, inc := range p.IncludePaths {
		if inc == "" {
			return fmt.Errorf("%s: include_paths[%d] is empty", path, i)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (p *Project) setDefaults() {
	if p.MaxDepth == 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Color == "" {
		p.Color = "auto"
	}
	if p.LogLevel == "" {
		p.LogLevel = "warn"
	}
}
