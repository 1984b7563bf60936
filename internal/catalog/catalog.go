// ABOUTME: Catalog specification reading: the curated list of package identifiers
// ABOUTME: YAML input only; shape violations surface as FormatError

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// SpecFileName is the catalog specification file.
	SpecFileName = "spex-catalog.yml"
	// IndexFileName is the generated, enriched catalog index file.
	IndexFileName = "spex-catalog-index.yml"
)

// Spec is the read-only catalog specification.
type Spec struct {
	Packages []string `yaml:"packages"`
}

// FormatError reports malformed catalog or index content.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed catalog file %s: %s", e.Path, e.Reason)
}

// LoadSpec reads a catalog specification.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog spec: %w", err)
	}

	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return &s, nil
}
