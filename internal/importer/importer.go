// ABOUTME: Import copier: materializes a package's specification subtree into a project
// ABOUTME: Temp checkout from the mirror, export-ignore filtering, replace semantics

package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/spexhq/spex/internal/buildfile"
	"github.com/spexhq/spex/internal/events"
	"github.com/spexhq/spex/internal/gitcmd"
	"github.com/spexhq/spex/internal/identifier"
	"github.com/spexhq/spex/internal/ignore"
	"github.com/spexhq/spex/internal/log"
	"github.com/spexhq/spex/internal/structure"
)

// MirrorResolver resolves an identifier to an up-to-date local mirror path.
type MirrorResolver interface {
	EnsureMirror(ctx context.Context, id identifier.Identifier) (string, error)
}

// Imported records one completed package import.
type Imported struct {
	PackageID  string // the identifier as declared
	SourceURL  string // normalized clone URL
	TargetPath string // where the filtered subtree was written
}

// MissingContentError reports a resolved package without a specification root.
type MissingContentError struct {
	Package string
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("package %q exports no %s/ specification root", e.Package, structure.RootDirName)
}

// Importer copies filtered package content into a project.
type Importer struct {
	store MirrorResolver
	git   *gitcmd.Runner
	bus   *events.Bus
	log   zerolog.Logger
}

// New creates an Importer. bus may be nil.
func New(store MirrorResolver, git *gitcmd.Runner, bus *events.Bus) *Importer {
	return &Importer{
		store: store,
		git:   git,
		bus:   bus,
		log:   log.ForComponent("importer"),
	}
}

// TargetPath returns where a package's content lands inside a project:
// .spex/imports/{host}/{namespace}/{name}.
func TargetPath(projectRoot string, id identifier.Identifier) string {
	return filepath.Join(buildfile.ImportsRoot(projectRoot), id.Host, id.Namespace, id.Name)
}

// Import resolves id's mirror, checks out its default branch into a private
// temporary tree, and copies the specification root into the project,
// filtered by the source package's own export ignores. Pre-existing content
// at the target is replaced, not merged. The temporary tree is removed on
// every exit path.
func (imp *Importer) Import(ctx context.Context, id identifier.Identifier, projectRoot string) (Imported, error) {
	imp.bus.Publish(events.Event{Kind: events.KindResolve, Package: id.Slug()})

	mirror, err := imp.store.EnsureMirror(ctx, id)
	if err != nil {
		return Imported{}, err
	}

	tmp, err := os.MkdirTemp("", "spex-checkout-")
	if err != nil {
		return Imported{}, fmt.Errorf("creating temp checkout dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	checkout := filepath.Join(tmp, "work")
	imp.bus.Publish(events.Event{Kind: events.KindCheckout, Package: id.Slug(), Path: checkout})
	if err := imp.git.Checkout(ctx, mirror, checkout, id.CloneURL()); err != nil {
		return Imported{}, err
	}

	specRoot := filepath.Join(checkout, structure.RootDirName)
	if fi, err := os.Stat(specRoot); err != nil || !fi.IsDir() {
		return Imported{}, &MissingContentError{Package: id.Raw}
	}

	// The exporting package declares its own ignores; they are evaluated
	// relative to its specification root, never the importing project's.
	srcCfg, err := buildfile.Load(checkout)
	if err != nil {
		return Imported{}, fmt.Errorf("reading source package build file: %w", err)
	}
	rules, err := ignore.Compile(srcCfg.ExportIgnores())
	if err != nil {
		return Imported{}, fmt.Errorf("compiling export ignores of %s: %w", id.Slug(), err)
	}

	target := TargetPath(projectRoot, id)
	imp.bus.Publish(events.Event{Kind: events.KindCopy, Package: id.Slug(), Path: target})

	if err := os.RemoveAll(target); err != nil {
		return Imported{}, &gitcmd.RemoteError{Op: "import", URL: id.CloneURL(), Err: err}
	}
	if err := copyFiltered(specRoot, target, rules); err != nil {
		return Imported{}, &gitcmd.RemoteError{Op: "import", URL: id.CloneURL(), Err: err}
	}

	imp.log.Debug().Str("package", id.Slug()).Str("target", target).Msg("import complete")
	imp.bus.Publish(events.Event{Kind: events.KindImported, Package: id.Slug(), Path: target})

	return Imported{
		PackageID:  id.Raw,
		SourceURL:  id.CloneURL(),
		TargetPath: target,
	}, nil
}

// copyFiltered recursively copies src into dst, skipping directories whose
// subtree matches a directory ignore and files matching a file ignore. All
// relative paths are computed against src.
func copyFiltered(src, dst string, rules *ignore.RuleSet) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && rules.MatchDir(rel) {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, filepath.FromSlash(rel)), 0o755)
		}

		if rules.MatchFile(rel) {
			return nil
		}
		return copyFile(path, filepath.Join(dst, filepath.FromSlash(rel)))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
