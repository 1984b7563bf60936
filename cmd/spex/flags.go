// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Global flags precede the subcommand: spex [flags] <build|catalog|discover|list>

package main

import "flag"

type cliArgs struct {
	verbose      bool
	version      bool
	cacheRoot    string
	catalogSpec  string
	catalogIndex string
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")
	flag.StringVar(&args.cacheRoot, "cache-root", "", "Mirror cache root (default ~/.spex/cache)")
	flag.StringVar(&args.catalogSpec, "catalog-spec", "spex-catalog.yml", "Catalog specification file")
	flag.StringVar(&args.catalogIndex, "catalog-index", "spex-catalog-index.yml", "Catalog index file")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
