// ABOUTME: Mirror cache: one bare mirror per remote repository under an injected root
// ABOUTME: Clone on first use, set-url plus fetch --prune thereafter; never deletes entries

package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/spexhq/spex/internal/events"
	"github.com/spexhq/spex/internal/gitcmd"
	"github.com/spexhq/spex/internal/identifier"
	"github.com/spexhq/spex/internal/log"
)

// Store manages mirror clones under a single root directory. The mirror path
// for an identifier is a pure function of host, namespace, and name; the
// store never removes or relocates entries.
type Store struct {
	root string
	git  *gitcmd.Runner
	bus  *events.Bus
	log  zerolog.Logger
}

// DefaultRoot returns the per-user cache root (~/.spex/cache).
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".spex", "cache"), nil
}

// NewStore creates a Store rooted at root. bus may be nil.
func NewStore(root string, git *gitcmd.Runner, bus *events.Bus) *Store {
	return &Store{
		root: root,
		git:  git,
		bus:  bus,
		log:  log.ForComponent("cache"),
	}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// MirrorPath returns where the mirror for id lives:
// {root}/{host}/{namespace}/{name}.git.
func (s *Store) MirrorPath(id identifier.Identifier) string {
	return filepath.Join(s.root, id.Host, id.Namespace, id.Name+".git")
}

// EnsureMirror makes the mirror for id present and current, returning its
// path. Absent mirrors are cloned; existing ones get their remote URL
// re-pointed (the identifier's host may have changed) and a pruning fetch.
// An existing directory is trusted as a usable mirror.
func (s *Store) EnsureMirror(ctx context.Context, id identifier.Identifier) (string, error) {
	return s.ensure(ctx, id, id.CloneURL())
}

func (s *Store) ensure(ctx context.Context, id identifier.Identifier, url string) (string, error) {
	path := s.MirrorPath(id)

	if _, err := os.Stat(path); err == nil {
		s.log.Debug().Str("mirror", path).Msg("refreshing mirror")
		s.bus.Publish(events.Event{Kind: events.KindFetch, Package: id.Slug(), Path: path})

		if err := s.git.SetRemoteURL(ctx, path, url); err != nil {
			return "", err
		}
		if err := s.git.FetchPrune(ctx, path, url); err != nil {
			return "", err
		}
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspecting mirror %s: %w", path, err)
	}

	s.log.Debug().Str("mirror", path).Str("url", url).Msg("cloning mirror")
	s.bus.Publish(events.Event{Kind: events.KindClone, Package: id.Slug(), Path: path})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	if err := s.git.CloneMirror(ctx, url, path); err != nil {
		return "", err
	}
	return path, nil
}
