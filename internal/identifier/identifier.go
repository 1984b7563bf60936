// ABOUTME: Package identifier parsing: full URL, short, and explicit-host forms
// ABOUTME: Normalizes to host/namespace/name behind a safe-character whitelist

package identifier

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultHost is assumed for short-form identifiers like "myorg/adr-node".
const DefaultHost = "github.com"

// safeSegment is the only character class allowed in host, namespace, and
// name. Parsed segments become filesystem path components and git arguments,
// so anything else (separators, "..", shell metacharacters, control bytes)
// is rejected here.
var safeSegment = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Identifier is a parsed, normalized package identifier.
// Immutable once parsed.
type Identifier struct {
	Raw       string
	Host      string
	Namespace string
	Name      string
}

// CloneURL returns the normalized https clone URL for the identifier.
// The scheme is always https regardless of the input form.
func (id Identifier) CloneURL() string {
	return fmt.Sprintf("https://%s/%s/%s.git", id.Host, id.Namespace, id.Name)
}

// Slug returns the host/namespace/name path form used for cache and import
// directory layout.
func (id Identifier) Slug() string {
	return id.Host + "/" + id.Namespace + "/" + id.Name
}

func (id Identifier) String() string {
	return id.Slug()
}

// FormatError reports a malformed or unsafe package identifier.
type FormatError struct {
	Raw    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid package identifier %q: %s", e.Raw, e.Reason)
}

// Parse normalizes a raw package identifier into an Identifier.
// Accepted forms, tried in order:
//   - Full URL:      "https://github.com/myorg/adr-node.git"
//   - Short:         "myorg/adr-node" (host defaults to DefaultHost)
//   - Explicit host: "gitlab.example.com/myorg/adr-node" (host must contain a dot)
//
// A trailing ".git" on the name is stripped. Every segment is validated
// against the safe character class; violations fail with *FormatError.
func Parse(raw string) (Identifier, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "/")
	if s == "" {
		return Identifier{}, &FormatError{Raw: raw, Reason: "empty identifier"}
	}

	var host, namespace, name string

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return Identifier{}, &FormatError{Raw: raw, Reason: "unparsable URL"}
		}
		segs := splitPath(u.Path)
		if len(segs) != 2 {
			return Identifier{}, &FormatError{Raw: raw, Reason: "URL path must be namespace/name"}
		}
		host, namespace, name = u.Host, segs[0], segs[1]
	} else {
		segs := splitPath(s)
		switch len(segs) {
		case 2:
			host, namespace, name = DefaultHost, segs[0], segs[1]
		case 3:
			// A three-segment form is only an explicit host when the first
			// segment looks like one; otherwise it is a namespace/name typo.
			if !strings.Contains(segs[0], ".") {
				return Identifier{}, &FormatError{Raw: raw, Reason: fmt.Sprintf("host %q must contain a dot", segs[0])}
			}
			host, namespace, name = segs[0], segs[1], segs[2]
		default:
			return Identifier{}, &FormatError{Raw: raw, Reason: "expected namespace/name or host/namespace/name"}
		}
	}

	name = strings.TrimSuffix(name, ".git")

	for _, seg := range []struct{ label, value string }{
		{"host", host},
		{"namespace", namespace},
		{"name", name},
	} {
		if !safeSegment.MatchString(seg.value) {
			return Identifier{}, &FormatError{Raw: raw, Reason: fmt.Sprintf("unsafe characters in %s %q", seg.label, seg.value)}
		}
	}

	return Identifier{Raw: raw, Host: host, Namespace: namespace, Name: name}, nil
}

// splitPath splits a path on "/" discarding empty segments from leading
// slashes; interior empty segments ("a//b") are kept so they fail validation.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
