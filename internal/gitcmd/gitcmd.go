// ABOUTME: Runner for the git executable: mirror clone, fetch, checkout, log, show
// ABOUTME: Arguments are discrete tokens, never shell-interpreted; diagnostics are captured

package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spexhq/spex/internal/log"
)

// allowedSubcommands is the closed set of git operations the engine performs.
var allowedSubcommands = map[string]bool{
	"clone":  true,
	"remote": true,
	"fetch":  true,
	"log":    true,
	"show":   true,
}

// RemoteError reports a failed git operation with its captured diagnostics.
type RemoteError struct {
	Op     string // git operation that failed
	URL    string // remote URL involved, when known
	Output string // combined stdout/stderr from git
	Err    error
}

func (e *RemoteError) Error() string {
	msg := "git " + e.Op + " failed"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Runner invokes the git executable.
type Runner struct {
	log zerolog.Logger
}

// New creates a Runner.
func New() *Runner {
	return &Runner{log: log.ForComponent("git")}
}

// CloneMirror creates a full mirror clone (all refs, no working tree) of url
// at dest.
func (r *Runner) CloneMirror(ctx context.Context, url, dest string) error {
	out, err := r.run(ctx, "", "clone", "--mirror", url, dest)
	if err != nil {
		return &RemoteError{Op: "clone", URL: url, Output: out, Err: err}
	}
	return nil
}

// SetRemoteURL points the mirror's origin remote at url. Tolerates
// identifiers whose host moved since the mirror was first created.
func (r *Runner) SetRemoteURL(ctx context.Context, mirror, url string) error {
	out, err := r.run(ctx, mirror, "remote", "set-url", "origin", url)
	if err != nil {
		return &RemoteError{Op: "remote set-url", URL: url, Output: out, Err: err}
	}
	return nil
}

// FetchPrune updates all refs in the mirror, pruning refs deleted upstream.
func (r *Runner) FetchPrune(ctx context.Context, mirror, url string) error {
	out, err := r.run(ctx, mirror, "fetch", "--prune", "origin")
	if err != nil {
		return &RemoteError{Op: "fetch", URL: url, Output: out, Err: err}
	}
	return nil
}

// Checkout materializes the default branch of the mirror at src into a
// working tree at dest. Mirrors hold no working tree, so this is the only way
// to obtain copyable files.
func (r *Runner) Checkout(ctx context.Context, src, dest, url string) error {
	out, err := r.run(ctx, "", "clone", src, dest)
	if err != nil {
		return &RemoteError{Op: "checkout", URL: url, Output: out, Err: err}
	}
	return nil
}

// LastCommitUnix returns the commit time, in epoch seconds, of the most
// recent commit reachable from any ref of the mirror. A repository with no
// commits, or a non-positive timestamp, is an error.
func (r *Runner) LastCommitUnix(ctx context.Context, mirror, url string) (int64, error) {
	stdout, stderr, err := r.output(ctx, mirror, "log", "--all", "-1", "--format=%ct")
	if err != nil {
		return 0, &RemoteError{Op: "log", URL: url, Output: stderr, Err: err}
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(stdout), 10, 64)
	if err != nil || ts <= 0 {
		return 0, &RemoteError{Op: "log", URL: url, Output: stdout, Err: fmt.Errorf("no usable commit timestamp")}
	}
	return ts, nil
}

// ShowFile reads a file at a revision directly from the mirror, without a
// working tree. rev is typically "HEAD".
func (r *Runner) ShowFile(ctx context.Context, mirror, rev, path string) ([]byte, error) {
	stdout, stderr, err := r.output(ctx, mirror, "show", rev+":"+path)
	if err != nil {
		return nil, &RemoteError{Op: "show", Output: stderr, Err: err}
	}
	return []byte(stdout), nil
}

// run executes git with the given working directory and argument array,
// returning combined output.
func (r *Runner) run(ctx context.Context, dir string, args ...string) (string, error) {
	if err := validateArgs(args); err != nil {
		return "", err
	}

	r.log.Debug().Str("dir", dir).Strs("args", args).Msg("exec git")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// output executes git keeping stdout and stderr separate, for operations
// whose stdout is parsed or returned as content.
func (r *Runner) output(ctx context.Context, dir string, args ...string) (string, string, error) {
	if err := validateArgs(args); err != nil {
		return "", "", err
	}

	r.log.Debug().Str("dir", dir).Strs("args", args).Msg("exec git")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// validateArgs rejects argument lists that could smuggle options or control
// bytes into git. Identifier-derived values are already whitelisted upstream;
// this is defense in depth.
func validateArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no git subcommand")
	}
	if !allowedSubcommands[args[0]] {
		return fmt.Errorf("git subcommand not allowed: %q", args[0])
	}

	for _, arg := range args[1:] {
		if arg == "" {
			return fmt.Errorf("empty git argument")
		}
		for _, r := range arg {
			if r < 0x20 || r == 0x7f {
				return fmt.Errorf("control byte in git argument %q", arg)
			}
		}
	}
	return nil
}
