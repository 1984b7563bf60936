// ABOUTME: Sequential build and catalog pipelines tying the engine components together
// ABOUTME: Declared order is processing order; the first failure aborts the run

package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spexhq/spex/internal/buildfile"
	"github.com/spexhq/spex/internal/catalog"
	"github.com/spexhq/spex/internal/events"
	"github.com/spexhq/spex/internal/identifier"
	"github.com/spexhq/spex/internal/importer"
	"github.com/spexhq/spex/internal/log"
	"github.com/spexhq/spex/internal/structure"
)

// PackageImporter imports one package into a project.
type PackageImporter interface {
	Import(ctx context.Context, id identifier.Identifier, projectRoot string) (importer.Imported, error)
}

// EntryHarvester derives catalog metadata from a resolved mirror.
type EntryHarvester interface {
	Harvest(ctx context.Context, id identifier.Identifier, mirror string) (catalog.Entry, error)
}

// Pipeline runs the build and catalog flows strictly sequentially. Packages
// already imported before a failure stay on disk as-is.
type Pipeline struct {
	store   importer.MirrorResolver
	imp     PackageImporter
	harvest EntryHarvester
	bus     *events.Bus
	log     zerolog.Logger
}

// New creates a Pipeline. bus may be nil.
func New(store importer.MirrorResolver, imp PackageImporter, harvest EntryHarvester, bus *events.Bus) *Pipeline {
	return &Pipeline{
		store:   store,
		imp:     imp,
		harvest: harvest,
		bus:     bus,
		log:     log.ForComponent("pipeline"),
	}
}

// Build validates the project structure, then imports every package declared
// in the build file, in declaration order.
func (p *Pipeline) Build(ctx context.Context, projectRoot string) ([]importer.Imported, error) {
	if _, err := structure.Validate(projectRoot); err != nil {
		return nil, err
	}

	cfg, err := buildfile.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	var results []importer.Imported
	for _, raw := range cfg.Packages {
		// Interruption is honored between packages, never mid-import.
		if err := ctx.Err(); err != nil {
			return results, err
		}

		id, err := identifier.Parse(raw)
		if err != nil {
			return results, err
		}

		p.log.Info().Str("package", id.Slug()).Msg("importing")
		res, err := p.imp.Import(ctx, id, projectRoot)
		if err != nil {
			return results, fmt.Errorf("importing %s: %w", raw, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// BuildCatalog resolves and harvests every catalog entry in specification
// order, then writes the enriched index to indexPath.
func (p *Pipeline) BuildCatalog(ctx context.Context, specPath, indexPath string) (*catalog.Index, error) {
	spec, err := catalog.LoadSpec(specPath)
	if err != nil {
		return nil, err
	}

	idx := &catalog.Index{}
	for _, raw := range spec.Packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := identifier.Parse(raw)
		if err != nil {
			return nil, err
		}

		p.log.Info().Str("package", id.Slug()).Msg("harvesting")
		mirror, err := p.store.EnsureMirror(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", raw, err)
		}

		entry, err := p.harvest.Harvest(ctx, id, mirror)
		if err != nil {
			return nil, fmt.Errorf("harvesting %s: %w", raw, err)
		}
		idx.Packages = append(idx.Packages, entry)
	}

	if err := catalog.SaveIndex(indexPath, idx); err != nil {
		return nil, err
	}
	p.bus.Publish(events.Event{Kind: events.KindCatalog, Path: indexPath})

	return idx, nil
}
