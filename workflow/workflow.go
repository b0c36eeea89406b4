// Package workflow drives a commit from staged changes to a commit,
// optionally routing the work to a new branch when it does not belong
// on the current one.
package workflow

import "errors"

// State identifies where a run ended or currently stands.
type State string

const (
	StateReviewingMessage       State = "reviewing_message"
	StateAwaitingBranchDecision State = "awaiting_branch_decision"
	StateEditingMessage         State = "editing_message"
	StateCreatingBranch         State = "creating_branch"
	StateCommitted              State = "committed"
	StateCancelled              State = "cancelled"
)

// CommitDecision is the user's choice at the commit review prompt.
type CommitDecision int

const (
	DecisionCommit CommitDecision = iota
	DecisionCancel
	DecisionEdit
	DecisionCreateBranch
)

// BranchDecision is the user's choice at the branch prompt. Name may
// differ from the suggestion when the user edited it.
type BranchDecision struct {
	Create bool
	Name   string
}

// ErrNoStagedChanges is returned when the working tree has changes but
// none are staged.
var ErrNoStagedChanges = errors.New("workflow: no staged changes")

// ErrEmptyMessage is returned when message generation or editing
// produces an empty commit message.
var ErrEmptyMessage = errors.New("workflow: empty commit message")

// Options controls a run.
type Options struct {
	// CheckAlignment enables branch alignment classification before
	// the commit is reviewed.
	CheckAlignment bool

	// AutoBranch creates the suggested branch on a mismatch without
	// asking.
	AutoBranch bool

	// AutoCommit commits without the interactive review.
	AutoCommit bool

	// DryRun generates the message and verdict but performs no git
	// mutations.
	DryRun bool

	// CommitAfterBranch commits immediately after a branch is created
	// instead of returning to the review prompt.
	CommitAfterBranch bool

	// StageAll stages all tracked changes before running.
	StageAll bool
}

// Result reports the outcome of a run.
type Result struct {
	State   State
	Message string

	// Branch is the branch created during the run, if any.
	Branch string

	// NothingToCommit is set when the working tree was already clean.
	NothingToCommit bool
}
