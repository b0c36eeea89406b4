package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Context manages git operations for a repository.
type Context struct {
	repoPath string        // Path to the repository root
	workDir  string        // Working directory for commands (defaults to repoPath)
	runner   CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository.
// It validates that the path is a git repository and applies any options.
func NewContext(repoPath string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	// Verify it's a git repository
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = absPath
	if err := cmd.Run(); err != nil {
		return nil, ErrNotGitRepo
	}

	g := &Context{
		repoPath: absPath,
		workDir:  absPath,
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// RepoPath returns the path to the repository root.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch() (string, error) {
	branch, err := g.runGit("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return branch, nil
}

// RecentCommits returns the last n commit subjects in oneline format,
// newest first.
func (g *Context) RecentCommits(n int) (string, error) {
	log, err := g.runGit("log", "--oneline", "-n", strconv.Itoa(n))
	if err != nil {
		return "", &Error{Op: "recent commits", Err: err}
	}
	return log, nil
}

// StagedFiles returns the paths staged for the next commit.
func (g *Context) StagedFiles() ([]string, error) {
	out, err := g.runGit("diff", "--cached", "--name-only")
	if err != nil {
		return nil, &Error{Op: "staged files", Err: err}
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// DiffStaged returns the diff of staged changes.
func (g *Context) DiffStaged() (string, error) {
	diff, err := g.runGit("diff", "--cached")
	if err != nil {
		return "", &Error{Op: "diff staged", Err: err}
	}
	return diff, nil
}

// Status returns the working tree status in porcelain format.
func (g *Context) Status() (string, error) {
	status, err := g.runGit("status", "--porcelain")
	if err != nil {
		return "", &Error{Op: "status", Err: err}
	}
	return status, nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (g *Context) IsClean() (bool, error) {
	status, err := g.Status()
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// Stage adds files to the staging area.
func (g *Context) Stage(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	if _, err := g.runGit(args...); err != nil {
		return &Error{Op: "stage files", Err: err}
	}
	return nil
}

// StageAll stages all changes (git add -A).
func (g *Context) StageAll() error {
	if _, err := g.runGit("add", "-A"); err != nil {
		return &Error{Op: "stage all", Err: err}
	}
	return nil
}

// Commit creates a commit with the given message.
// Returns ErrNothingToCommit if there are no staged changes.
func (g *Context) Commit(message string) error {
	output, err := g.runGit("commit", "-m", message)
	if err != nil {
		if strings.Contains(output, "nothing to commit") ||
			strings.Contains(err.Error(), "nothing to commit") {
			return ErrNothingToCommit
		}
		return &Error{Op: "commit", Output: output, Err: err}
	}
	return nil
}

// CreateAndSwitchBranch creates a branch at HEAD and switches to it.
// Returns ErrBranchExists if the branch already exists.
func (g *Context) CreateAndSwitchBranch(name string) error {
	if _, err := g.runGit("checkout", "-b", name); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ErrBranchExists
		}
		return &Error{Op: "create branch", Err: err}
	}
	return nil
}

// Checkout switches to the specified ref (branch, tag, or commit).
func (g *Context) Checkout(ref string) error {
	if _, err := g.runGit("checkout", ref); err != nil {
		return &Error{Op: "checkout", Err: err}
	}
	return nil
}

// BranchExists checks if a branch exists.
func (g *Context) BranchExists(name string) bool {
	_, err := g.runGit("rev-parse", "--verify", name)
	return err == nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *Context) HeadCommit() (string, error) {
	sha, err := g.runGit("rev-parse", "HEAD")
	if err != nil {
		return "", &Error{Op: "get HEAD commit", Err: err}
	}
	return sha, nil
}

// runGit executes a git command and returns stdout.
func (g *Context) runGit(args ...string) (string, error) {
	return g.runner.Run(g.workDir, "git", args...)
}
