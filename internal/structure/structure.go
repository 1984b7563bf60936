// ABOUTME: Project structure validation: spex root with recognized item-type dirs
// ABOUTME: Aggregates every violated rule into one ValidationError

package structure

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RootDirName is the specification root subdirectory of a project or package.
const RootDirName = "spex"

// ItemTypes are the recognized item-type subdirectories, in listing order.
var ItemTypes = []string{"adr", "prd", "rfc", "guide", "runbook"}

// Item is one validated item-type directory.
type Item struct {
	Type string
	Path string
}

// ValidationError aggregates structural rule violations, one message each.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid project structure: " + strings.Join(e.Problems, "; ")
}

// Validate confirms projectRoot holds a specification root with at least one
// recognized item-type subdirectory, each containing at least one markdown
// file. Returns the validated type/path pairs or a *ValidationError listing
// every violation.
func Validate(projectRoot string) ([]Item, error) {
	root := filepath.Join(projectRoot, RootDirName)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &ValidationError{Problems: []string{
			fmt.Sprintf("missing specification root %s/", RootDirName),
		}}
	}

	var items []Item
	var problems []string

	for _, typ := range ItemTypes {
		dir := filepath.Join(root, typ)
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			continue
		}
		if !containsMarkdown(dir) {
			problems = append(problems, fmt.Sprintf("item directory %s/%s has no markdown files", RootDirName, typ))
			continue
		}
		items = append(items, Item{Type: typ, Path: dir})
	}

	if len(items) == 0 && len(problems) == 0 {
		problems = append(problems, fmt.Sprintf("%s/ has no recognized item-type directories (%s)", RootDirName, strings.Join(ItemTypes, ", ")))
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return items, nil
}

// containsMarkdown reports whether dir holds at least one .md file at any depth.
func containsMarkdown(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
