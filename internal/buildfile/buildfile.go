// ABOUTME: Project build file (.spex/spex.yml): ordered package list and export ignores
// ABOUTME: YAML load/save with atomic replace; a missing file loads as an empty config

package buildfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the project-relative spex directory.
	Dir = ".spex"
	// FileName is the build file name inside Dir.
	FileName = "spex.yml"
	// ImportsDir holds imported package content inside Dir.
	ImportsDir = "imports"
)

// Export declares how this project behaves when consumed as a package.
type Export struct {
	Ignores []string `yaml:"ignores,omitempty"`
}

// Config is the parsed build file. The package list is ordered and
// duplicate-free; insertion order is processing order.
type Config struct {
	Packages []string `yaml:"packages"`
	Export   *Export  `yaml:"export,omitempty"`
}

// Path returns the build file location for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, FileName)
}

// ImportsRoot returns the directory imported packages are copied under.
func ImportsRoot(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, ImportsDir)
}

// Load reads the build file for a project root. A missing file yields an
// empty config. Duplicate package entries are dropped, keeping first
// occurrence order.
func Load(projectRoot string) (*Config, error) {
	data, err := os.ReadFile(Path(projectRoot))
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading build file: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Path(projectRoot), err)
	}
	c.Packages = dedupe(c.Packages)
	return &c, nil
}

// Save writes the build file atomically (temp file plus rename).
func Save(projectRoot string, c *Config) error {
	dir := filepath.Join(projectRoot, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling build file: %w", err)
	}

	path := Path(projectRoot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp build file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing build file: %w", err)
	}
	return nil
}

// Has reports whether id is already declared.
func (c *Config) Has(id string) bool {
	for _, p := range c.Packages {
		if p == id {
			return true
		}
	}
	return false
}

// Add appends id if absent, preserving order. Reports whether the config
// changed.
func (c *Config) Add(id string) bool {
	if c.Has(id) {
		return false
	}
	c.Packages = append(c.Packages, id)
	return true
}

// ExportIgnores returns the declared export ignore patterns, if any.
func (c *Config) ExportIgnores() []string {
	if c.Export == nil {
		return nil
	}
	return c.Export.Ignores
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
