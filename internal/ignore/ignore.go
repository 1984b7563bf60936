// ABOUTME: Export-ignore glob compilation using doublestar patterns
// ABOUTME: Matches file paths and directory subtrees relative to a package's spec root

package ignore

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RuleSet holds compiled ignore patterns. Paths handed to the matchers must
// be relative to the source package's specification root.
type RuleSet struct {
	patterns []string
}

// Compile normalizes and validates glob patterns into a RuleSet.
// Backslashes become forward slashes and surrounding slashes are stripped
// before validation. Empty patterns are dropped.
func Compile(patterns []string) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, raw := range patterns {
		p := normalize(raw)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", raw)
		}
		rs.patterns = append(rs.patterns, p)
	}
	return rs, nil
}

// Empty reports whether the set contains no patterns.
func (rs *RuleSet) Empty() bool {
	return len(rs.patterns) == 0
}

// MatchFile reports whether the file at rel matches any pattern.
func (rs *RuleSet) MatchFile(rel string) bool {
	rel = normalize(rel)
	for _, p := range rs.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// MatchDir reports whether the directory at rel, or any of its ancestors,
// matches a pattern. A pattern naming a subtree ("build/**") matches the
// directory itself, so the whole subtree can be skipped without enumerating
// descendants.
func (rs *RuleSet) MatchDir(rel string) bool {
	rel = normalize(rel)
	if rel == "" || rel == "." {
		return false
	}

	segs := strings.Split(rel, "/")
	for i := range segs {
		prefix := strings.Join(segs[:i+1], "/")
		for _, p := range rs.patterns {
			if ok, _ := doublestar.Match(p, prefix); ok {
				return true
			}
			if sub, found := strings.CutSuffix(p, "/**"); found {
				if ok, _ := doublestar.Match(sub, prefix); ok {
					return true
				}
			}
		}
	}
	return false
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(strings.TrimSpace(p), "/")
}
