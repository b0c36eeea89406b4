package git_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mwhitfield/commitflow/git"
	"github.com/mwhitfield/commitflow/testutil"
)

func TestNewContext_NotARepo(t *testing.T) {
	_, err := git.NewContext(t.TempDir())
	if !errors.Is(err, git.ErrNotGitRepo) {
		t.Errorf("err = %v, want ErrNotGitRepo", err)
	}
}

func TestStagedWorkflow(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	testutil.StageFile(t, repo, "auth/token.go", "package auth\n")

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	files, err := ctx.StagedFiles()
	if err != nil {
		t.Fatalf("StagedFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != "auth/token.go" {
		t.Errorf("files = %v, want [auth/token.go]", files)
	}

	diff, err := ctx.DiffStaged()
	if err != nil {
		t.Fatalf("DiffStaged failed: %v", err)
	}
	if !strings.Contains(diff, "package auth") {
		t.Errorf("diff missing staged content:\n%s", diff)
	}

	if err := ctx.Commit("feat(auth): add token package"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	log, err := ctx.RecentCommits(2)
	if err != nil {
		t.Fatalf("RecentCommits failed: %v", err)
	}
	if !strings.Contains(log, "feat(auth): add token package") {
		t.Errorf("log missing new commit:\n%s", log)
	}
}

func TestCommit_CleanTree(t *testing.T) {
	repo := testutil.SetupTestRepo(t)

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	err = ctx.Commit("feat: nothing staged")
	if !errors.Is(err, git.ErrNothingToCommit) {
		t.Errorf("err = %v, want ErrNothingToCommit", err)
	}
}

func TestCreateAndSwitchBranch_Integration(t *testing.T) {
	repo := testutil.SetupTestRepo(t)

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}

	if err := ctx.CreateAndSwitchBranch("feat/auth-refresh-token"); err != nil {
		t.Fatalf("CreateAndSwitchBranch failed: %v", err)
	}

	branch, err := ctx.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "feat/auth-refresh-token" {
		t.Errorf("branch = %q, want %q", branch, "feat/auth-refresh-token")
	}

	err = ctx.CreateAndSwitchBranch("feat/auth-refresh-token")
	if !errors.Is(err, git.ErrBranchExists) {
		t.Errorf("err = %v, want ErrBranchExists", err)
	}
}
