// ABOUTME: Terminal rendering of engine progress events and result summaries
// ABOUTME: Lipgloss styling, disabled when stdout is not a terminal

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/spexhq/spex/internal/events"
)

var (
	okStyle   = lipgloss.NewStyle()
	errStyle  = lipgloss.NewStyle()
	dimStyle  = lipgloss.NewStyle()
	nameStyle = lipgloss.NewStyle()
)

func init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	okStyle = okStyle.Foreground(lipgloss.Color("10"))
	errStyle = errStyle.Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle = dimStyle.Faint(true)
	nameStyle = nameStyle.Bold(true)
}

// renderEvent prints one progress step per engine event.
func renderEvent(e events.Event) {
	switch e.Kind {
	case events.KindResolve:
		fmt.Printf("%s %s\n", dimStyle.Render("resolving"), e.Package)
	case events.KindClone:
		fmt.Printf("%s %s\n", dimStyle.Render("cloning"), e.Package)
	case events.KindFetch:
		fmt.Printf("%s %s\n", dimStyle.Render("fetching"), e.Package)
	case events.KindCheckout:
		fmt.Printf("%s %s\n", dimStyle.Render("checking out"), e.Package)
	case events.KindCopy:
		fmt.Printf("%s %s -> %s\n", dimStyle.Render("copying"), e.Package, e.Path)
	case events.KindImported:
		fmt.Printf("%s %s\n", okStyle.Render("imported"), e.Package)
	case events.KindHarvest:
		fmt.Printf("%s %s\n", dimStyle.Render("harvesting"), e.Package)
	case events.KindCatalog:
		fmt.Printf("%s %s\n", okStyle.Render("catalog written"), e.Path)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errStyle.Render("error:"), err)
	os.Exit(1)
}
