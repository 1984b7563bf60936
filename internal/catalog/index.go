// ABOUTME: Catalog index: enriched {id, name, updated} entries with legacy read support
// ABOUTME: Readers accept bare identifier strings; writers always emit the object form

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one indexed catalog package.
type Entry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Updated int64  `yaml:"updated"` // epoch seconds of the most recent commit
}

// UnmarshalYAML accepts both the enriched object form and the legacy bare
// identifier string, which carries no name or timestamp.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var id string
		if err := value.Decode(&id); err != nil {
			return err
		}
		e.ID = id
		e.Name = id
		e.Updated = 0
		return nil
	case yaml.MappingNode:
		type plain Entry
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*e = Entry(p)
		return nil
	default:
		return fmt.Errorf("catalog entry must be a string or a mapping")
	}
}

// Index is the generated catalog index.
type Index struct {
	Packages []Entry `yaml:"packages"`
}

// LoadIndex reads a catalog index. The file must exist; a catalog build must
// precede any consumer.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog index: %w", err)
	}

	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, &FormatError{Path: path, Reason: err.Error()}
	}
	return &idx, nil
}

// SaveIndex writes the index atomically in the enriched object form.
func SaveIndex(path string, idx *Index) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshaling catalog index: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp catalog index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing catalog index: %w", err)
	}
	return nil
}
