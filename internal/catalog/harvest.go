// ABOUTME: Catalog metadata harvesting: last-commit time and README display name
// ABOUTME: Reads straight from the mirror at HEAD; name lookup failures fall back silently

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/spexhq/spex/internal/events"
	"github.com/spexhq/spex/internal/gitcmd"
	"github.com/spexhq/spex/internal/identifier"
	"github.com/spexhq/spex/internal/log"
)

// readmeNames are the candidate README filenames, tried in this order.
var readmeNames = []string{"README.md", "Readme.md", "readme.md", "README.MD"}

// Harvester derives catalog entry metadata from a resolved mirror.
type Harvester struct {
	git *gitcmd.Runner
	bus *events.Bus
	log zerolog.Logger
}

// NewHarvester creates a Harvester. bus may be nil.
func NewHarvester(git *gitcmd.Runner, bus *events.Bus) *Harvester {
	return &Harvester{
		git: git,
		bus: bus,
		log: log.ForComponent("harvest"),
	}
}

// Harvest builds the index entry for id from its mirror. The last-commit
// timestamp considers every ref, not just the default branch, and is
// mandatory; the display name falls back to the raw identifier.
func (h *Harvester) Harvest(ctx context.Context, id identifier.Identifier, mirror string) (Entry, error) {
	h.bus.Publish(events.Event{Kind: events.KindHarvest, Package: id.Slug(), Path: mirror})

	updated, err := h.git.LastCommitUnix(ctx, mirror, id.CloneURL())
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:      id.Raw,
		Name:    h.displayName(ctx, mirror, id),
		Updated: updated,
	}, nil
}

// displayName returns the first level-one heading of the package's README,
// or the raw identifier when no README or heading is found. This fallback is
// never an error.
func (h *Harvester) displayName(ctx context.Context, mirror string, id identifier.Identifier) string {
	for _, name := range readmeNames {
		data, err := h.git.ShowFile(ctx, mirror, "HEAD", name)
		if err != nil {
			continue
		}
		if title := firstHeading(data); title != "" {
			return title
		}
		// A README without a level-one heading still ends the search.
		break
	}

	h.log.Debug().Str("package", id.Slug()).Msg("no README title, using identifier")
	return id.Raw
}

// firstHeading scans markdown for the first "# Title" line. A leading
// byte-order mark is tolerated.
func firstHeading(data []byte) string {
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}
