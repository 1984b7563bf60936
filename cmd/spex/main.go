// ABOUTME: CLI entry point for spex: build, catalog, discover, and list subcommands
// ABOUTME: Wires the cache store, importer, harvester, and pipeline with a shared event bus

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spexhq/spex/internal/buildfile"
	"github.com/spexhq/spex/internal/cache"
	"github.com/spexhq/spex/internal/catalog"
	"github.com/spexhq/spex/internal/discovery"
	"github.com/spexhq/spex/internal/events"
	"github.com/spexhq/spex/internal/gitcmd"
	"github.com/spexhq/spex/internal/identifier"
	"github.com/spexhq/spex/internal/importer"
	"github.com/spexhq/spex/internal/log"
	"github.com/spexhq/spex/internal/pipeline"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const usage = `usage: spex [flags] <command>

commands:
  build     validate the project and import all declared packages
  catalog   build the enriched catalog index from a catalog spec
  discover  browse catalog packages not yet declared and add selections
  list      show the packages declared in the build file
`

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("spex %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fail(err)
	}
}

func run(args cliArgs) error {
	if args.verbose {
		log.SetVerbose()
	}

	rest := args.remaining()
	if len(rest) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cacheRoot := args.cacheRoot
	if cacheRoot == "" {
		cacheRoot, err = cache.DefaultRoot()
		if err != nil {
			return err
		}
	}

	// Interruption is honored between packages; see the pipeline.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bus := events.NewBus()
	bus.Subscribe(renderEvent)

	git := gitcmd.New()
	store := cache.NewStore(cacheRoot, git, bus)
	imp := importer.New(store, git, bus)
	harvest := catalog.NewHarvester(git, bus)
	pipe := pipeline.New(store, imp, harvest, bus)

	switch rest[0] {
	case "build":
		results, err := pipe.Build(ctx, cwd)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d package(s)\n", okStyle.Render("imported"), len(results))
		return nil

	case "catalog":
		idx, err := pipe.BuildCatalog(ctx, args.catalogSpec, args.catalogIndex)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d catalog entries\n", okStyle.Render("indexed"), len(idx.Packages))
		return nil

	case "discover":
		query := ""
		if len(rest) > 1 {
			query = rest[1]
		}
		return runDiscover(cwd, args.catalogIndex, query)

	case "list":
		return runList(cwd)

	default:
		return fmt.Errorf("unknown command %q\n%s", rest[0], usage)
	}
}

// runDiscover lists available catalog entries and commits selections to the
// build file, one at a time, until the user stops.
func runDiscover(projectRoot, indexPath, query string) error {
	session, err := discovery.NewSession(projectRoot, indexPath)
	if err != nil {
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		entries := session.Filter(query)
		if len(entries) == 0 {
			fmt.Println(dimStyle.Render("no packages available"))
			return nil
		}

		for i, e := range entries {
			fmt.Printf("%3d. %s %s\n", i+1, nameStyle.Render(e.Name), dimStyle.Render(e.ID))
		}
		fmt.Print("add (number, empty to quit): ")

		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			return nil
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(entries) {
			fmt.Println(errStyle.Render("invalid selection"))
			continue
		}

		picked := entries[n-1]
		if _, err := session.Add(picked.ID); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("added"), picked.ID)
	}
}

// runList prints the declared packages and whether their import target exists.
func runList(projectRoot string) error {
	cfg, err := buildfile.Load(projectRoot)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tIMPORTED")
	for _, raw := range cfg.Packages {
		imported := "no"
		if target, err := declaredTarget(projectRoot, raw); err == nil {
			if _, statErr := os.Stat(target); statErr == nil {
				imported = "yes"
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", raw, imported)
	}
	return w.Flush()
}

func declaredTarget(projectRoot, raw string) (string, error) {
	id, err := identifier.Parse(raw)
	if err != nil {
		return "", err
	}
	return importer.TargetPath(projectRoot, id), nil
}
