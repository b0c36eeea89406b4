// Package testutil provides temporary git repository fixtures for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one commit.
// The repository is cleaned up automatically when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	WriteFile(t, dir, "README.md", "# Test Repository\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "chore: initial commit")

	return dir
}

// WriteFile writes content to path (relative to dir), creating parents.
func WriteFile(t *testing.T, dir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

// StageFile writes and stages a file without committing it.
func StageFile(t *testing.T, dir, path, content string) {
	t.Helper()

	WriteFile(t, dir, path, content)
	runGit(t, dir, "add", "--", path)
}

// CommitFile writes, stages, and commits a file with the given message.
func CommitFile(t *testing.T, dir, path, content, message string) {
	t.Helper()

	StageFile(t, dir, path, content)
	runGit(t, dir, "commit", "-m", message)
}

// CheckoutNewBranch creates and switches to a branch in the test repo.
func CheckoutNewBranch(t *testing.T, dir, branch string) {
	t.Helper()
	runGit(t, dir, "checkout", "-b", branch)
}

// runGit runs a git command in dir, failing the test on error.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
