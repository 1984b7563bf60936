// ABOUTME: Tests for the git runner using local repositories
// ABOUTME: Builds throwaway source repos and mirrors under t.TempDir

package gitcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// mustGit runs a git command for test fixtures, failing the test on error.
func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
}

// setupSourceRepo creates a local repo with one commit containing README.md.
func setupSourceRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	src := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}

	mustGit(t, "", "init", src)
	mustGit(t, src, "config", "user.email", "test@test.com")
	mustGit(t, src, "config", "user.name", "Test")

	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("# Sample Package\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mustGit(t, src, "add", ".")
	mustGit(t, src, "commit", "-m", "initial")

	return src
}

func TestCloneMirrorAndLog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}

	src := setupSourceRepo(t)
	mirror := filepath.Join(t.TempDir(), "repo.git")
	r := New()
	ctx := context.Background()

	if err := r.CloneMirror(ctx, src, mirror); err != nil {
		t.Fatalf("CloneMirror: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mirror, "HEAD")); err != nil {
		t.Fatalf("mirror missing HEAD: %v", err)
	}

	ts, err := r.LastCommitUnix(ctx, mirror, src)
	if err != nil {
		t.Fatalf("LastCommitUnix: %v", err)
	}
	if ts <= 0 {
		t.Errorf("LastCommitUnix = %d; want positive epoch seconds", ts)
	}
}

func TestShowFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}

	src := setupSourceRepo(t)
	mirror := filepath.Join(t.TempDir(), "repo.git")
	r := New()
	ctx := context.Background()

	if err := r.CloneMirror(ctx, src, mirror); err != nil {
		t.Fatalf("CloneMirror: %v", err)
	}

	data, err := r.ShowFile(ctx, mirror, "HEAD", "README.md")
	if err != nil {
		t.Fatalf("ShowFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Sample Package") {
		t.Errorf("ShowFile = %q; want README content", data)
	}

	if _, err := r.ShowFile(ctx, mirror, "HEAD", "missing.md"); err == nil {
		t.Error("ShowFile for missing file: expected error")
	}
}

func TestCheckout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}

	src := setupSourceRepo(t)
	mirror := filepath.Join(t.TempDir(), "repo.git")
	dest := filepath.Join(t.TempDir(), "work")
	r := New()
	ctx := context.Background()

	if err := r.CloneMirror(ctx, src, mirror); err != nil {
		t.Fatalf("CloneMirror: %v", err)
	}
	if err := r.Checkout(ctx, mirror, dest, src); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "README.md")); err != nil {
		t.Errorf("checkout missing README.md: %v", err)
	}
}

func TestLastCommitUnix_NoCommits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	empty := filepath.Join(t.TempDir(), "empty.git")
	mustGit(t, "", "init", "--bare", empty)

	r := New()
	_, err := r.LastCommitUnix(context.Background(), empty, "file://"+empty)
	if err == nil {
		t.Fatal("expected error for repository with no commits")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error %T; want *RemoteError", err)
	}
}

func TestCloneMirror_UnreachableRemote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	dest := filepath.Join(t.TempDir(), "mirror.git")

	r := New()
	err := r.CloneMirror(context.Background(), missing, dest)
	if err == nil {
		t.Fatal("expected error for unreachable remote")
	}

	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error %T; want *RemoteError", err)
	}
	if re.URL != missing {
		t.Errorf("RemoteError.URL = %q; want %q", re.URL, missing)
	}
	if re.Output == "" {
		t.Error("RemoteError.Output empty; want captured git diagnostics")
	}
}

func TestValidateArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"allowed", []string{"clone", "--mirror", "url", "dest"}, false},
		{"empty list", nil, true},
		{"forbidden subcommand", []string{"push", "origin"}, true},
		{"empty argument", []string{"fetch", ""}, true},
		{"control byte", []string{"show", "HEAD:a\x00b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateArgs(%v) error = %v; wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestRemoteError_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 128")
	err := &RemoteError{Op: "clone", URL: "https://example.com/a/b.git", Output: "fatal: repository not found", Err: cause}

	msg := err.Error()
	for _, want := range []string{"clone", "https://example.com/a/b.git", "repository not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q; missing %q", msg, want)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap lost the underlying error")
	}
}
