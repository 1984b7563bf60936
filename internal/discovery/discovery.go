// ABOUTME: Catalog discovery decision logic: available-set computation and selection commit
// ABOUTME: Terminal presentation stays outside; only exposes state and one-selection commits

package discovery

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/spexhq/spex/internal/buildfile"
	"github.com/spexhq/spex/internal/catalog"
)

// Session pairs a project's build file with a read-only catalog index.
type Session struct {
	projectRoot string
	cfg         *buildfile.Config
	index       *catalog.Index
}

// NewSession opens a discovery session. A missing catalog index is a hard
// error (a catalog build must precede discovery); a missing build file
// starts with an empty package list.
func NewSession(projectRoot, indexPath string) (*Session, error) {
	index, err := catalog.LoadIndex(indexPath)
	if err != nil {
		return nil, fmt.Errorf("discovery requires a built catalog index: %w", err)
	}

	cfg, err := buildfile.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	return &Session{projectRoot: projectRoot, cfg: cfg, index: index}, nil
}

// Available returns the catalog entries not yet declared in the build file,
// preserving catalog order.
func (s *Session) Available() []catalog.Entry {
	var out []catalog.Entry
	for _, e := range s.index.Packages {
		if !s.cfg.Has(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Add appends id to the build file if absent and persists immediately.
// Re-adding a present id is a no-op. Either way the refreshed available set
// is returned.
func (s *Session) Add(id string) ([]catalog.Entry, error) {
	if s.cfg.Add(id) {
		if err := buildfile.Save(s.projectRoot, s.cfg); err != nil {
			return nil, err
		}
	}
	return s.Available(), nil
}

// Filter fuzzy-matches the available entries against query over both display
// name and identifier. An empty query returns the full available set.
func (s *Session) Filter(query string) []catalog.Entry {
	available := s.Available()
	if query == "" {
		return available
	}

	matches := fuzzy.FindFrom(query, entrySource(available))
	out := make([]catalog.Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, available[m.Index])
	}
	return out
}

// entrySource adapts entries to the fuzzy matcher.
type entrySource []catalog.Entry

func (s entrySource) String(i int) string { return s[i].Name + " " + s[i].ID }
func (s entrySource) Len() int            { return len(s) }
