// ABOUTME: Tests for identifier parsing and normalization
// ABOUTME: Covers URL/short/explicit-host forms and unsafe-character rejection

package identifier

import (
	"errors"
	"testing"
)

func TestParse_Forms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw           string
		wantHost      string
		wantNamespace string
		wantName      string
	}{
		{"myorg/adr-node", "github.com", "myorg", "adr-node"},
		{"myorg/adr-node/", "github.com", "myorg", "adr-node"},
		{"https://github.com/myorg/adr-node.git", "github.com", "myorg", "adr-node"},
		{"https://github.com/myorg/adr-node", "github.com", "myorg", "adr-node"},
		{"http://github.com/myorg/adr-node", "github.com", "myorg", "adr-node"},
		{"gitlab.example.com/team/specs", "gitlab.example.com", "team", "specs"},
		{"  myorg/adr-node  ", "github.com", "myorg", "adr-node"},
		{"myorg/adr-node.git", "github.com", "myorg", "adr-node"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.raw, err)
			}
			if id.Host != tt.wantHost {
				t.Errorf("Host = %q; want %q", id.Host, tt.wantHost)
			}
			if id.Namespace != tt.wantNamespace {
				t.Errorf("Namespace = %q; want %q", id.Namespace, tt.wantNamespace)
			}
			if id.Name != tt.wantName {
				t.Errorf("Name = %q; want %q", id.Name, tt.wantName)
			}
		})
	}
}

func TestParse_FormIndependentNormalization(t *testing.T) {
	t.Parallel()

	short, err := Parse("myorg/adr-node")
	if err != nil {
		t.Fatalf("Parse short: %v", err)
	}
	full, err := Parse("https://github.com/myorg/adr-node.git")
	if err != nil {
		t.Fatalf("Parse full: %v", err)
	}

	if short.CloneURL() != full.CloneURL() {
		t.Errorf("CloneURL mismatch: %q vs %q", short.CloneURL(), full.CloneURL())
	}
	if want := "https://github.com/myorg/adr-node.git"; full.CloneURL() != want {
		t.Errorf("CloneURL = %q; want %q", full.CloneURL(), want)
	}
	if short.Slug() != full.Slug() {
		t.Errorf("Slug mismatch: %q vs %q", short.Slug(), full.Slug())
	}
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()
	tests := []string{
		"",
		"   ",
		"single-segment",
		"../../etc/passwd",
		"a/b;rm -rf",
		"a/b/c",       // three segments, first has no dot
		"a/b/c/d",     // too many segments
		"org/na me",   // space in name
		"org/na\x00me",
		"https://github.com/only-namespace",
		"https://github.com/a/b/c",
		"git@github.com:org/repo", // scp-style is not an accepted form
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			if err == nil {
				t.Fatalf("Parse(%q): expected error", raw)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse(%q): error %T; want *FormatError", raw, err)
			}
			if fe.Raw != raw {
				t.Errorf("FormatError.Raw = %q; want %q", fe.Raw, raw)
			}
		})
	}
}

func TestParse_ForcesHTTPSScheme(t *testing.T) {
	t.Parallel()

	id, err := Parse("git://github.com/myorg/adr-node")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := "https://github.com/myorg/adr-node.git"; id.CloneURL() != want {
		t.Errorf("CloneURL = %q; want %q", id.CloneURL(), want)
	}
}
