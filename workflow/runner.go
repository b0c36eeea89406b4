package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mwhitfield/commitflow/align"
	"github.com/mwhitfield/commitflow/branch"
)

// recentCommitCount is how much branch history the classifier sees.
const recentCommitCount = 10

// Git is the repository surface the runner needs.
type Git interface {
	CurrentBranch() (string, error)
	RecentCommits(n int) (string, error)
	StagedFiles() ([]string, error)
	DiffStaged() (string, error)
	Status() (string, error)
	StageAll() error
	Commit(message string) error
	CreateAndSwitchBranch(name string) error
}

// MessageGenerator produces a commit message from staged changes.
type MessageGenerator interface {
	CommitMessage(ctx context.Context, diff string, files []string) (string, error)
}

// Classifier decides branch alignment and suggests branch names.
type Classifier interface {
	Classify(ctx context.Context, req align.Request) (align.Verdict, error)
	SuggestBranch(ctx context.Context, message string) (string, error)
}

// Prompter collects the user's decisions. ReviewCommit shows the
// message; allowBranch controls whether branching is offered.
// ResolveBranch presents a suggested branch; mismatch distinguishes a
// classifier verdict from a user-initiated branch request.
type Prompter interface {
	ReviewCommit(message string, allowBranch bool) (CommitDecision, error)
	ResolveBranch(current, suggested, reason string, mismatch bool) (BranchDecision, error)
}

// Editor lets the user revise a commit message.
type Editor interface {
	Edit(initial string) (string, error)
}

// Config wires a Runner.
type Config struct {
	Git        Git
	Generator  MessageGenerator
	Classifier Classifier
	Prompter   Prompter
	Editor     Editor
	Options    Options
	Logger     *zap.Logger
}

// Runner executes the commit workflow.
type Runner struct {
	git        Git
	gen        MessageGenerator
	classifier Classifier
	prompter   Prompter
	editor     Editor
	opts       Options
	logger     *zap.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		git:        cfg.Git,
		gen:        cfg.Generator,
		classifier: cfg.Classifier,
		prompter:   cfg.Prompter,
		editor:     cfg.Editor,
		opts:       cfg.Options,
		logger:     logger,
	}
}

// Run drives the workflow to a terminal state. At most one branch is
// created per run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.opts.StageAll {
		if err := r.git.StageAll(); err != nil {
			return Result{}, err
		}
	}

	diff, files, err := r.stagedChanges()
	if err != nil {
		return Result{}, err
	}

	if strings.TrimSpace(diff) == "" {
		status, err := r.git.Status()
		if err != nil {
			return Result{}, err
		}
		if strings.TrimSpace(status) == "" {
			return Result{NothingToCommit: true}, nil
		}
		return Result{}, ErrNoStagedChanges
	}

	msg, err := r.gen.CommitMessage(ctx, diff, files)
	if err != nil {
		return Result{}, err
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Result{}, ErrEmptyMessage
	}
	r.logger.Debug("generated commit message", zap.String("message", msg))

	current := ""
	branchHandled := false
	createdBranch := ""

	var verdict align.Verdict
	classified := false
	if r.opts.CheckAlignment {
		current, err = r.git.CurrentBranch()
		if err != nil {
			return Result{}, err
		}
		verdict, err = r.classify(ctx, current, msg, files)
		if err != nil {
			return Result{}, err
		}
		classified = true
	}

	if r.opts.DryRun {
		res := Result{State: StateReviewingMessage, Message: msg}
		if classified && !verdict.Matches {
			res.Branch = verdict.SuggestedBranch
		}
		return res, nil
	}

	if classified && !verdict.Matches {
		suggested := verdict.SuggestedBranch
		if suggested == "" {
			suggested = branch.Synthesize(msg)
		}

		if r.opts.AutoBranch || r.opts.AutoCommit {
			if err := r.createBranch(suggested); err != nil {
				return Result{}, err
			}
			branchHandled = true
			createdBranch = suggested
		} else {
			r.enter(StateAwaitingBranchDecision)
			dec, err := r.prompter.ResolveBranch(current, suggested, verdict.Reason, true)
			if err != nil {
				return Result{}, err
			}
			// A skip is a resolved decision too: the branch option
			// stays off for the rest of the run.
			branchHandled = true
			if dec.Create {
				name := branch.Clean(dec.Name)
				if name == "" {
					name = suggested
				}
				if err := r.createBranch(name); err != nil {
					return Result{}, err
				}
				createdBranch = name
				if r.opts.CommitAfterBranch {
					return r.commit(msg, createdBranch)
				}
			}
		}
	}

	if r.opts.AutoCommit {
		return r.commit(msg, createdBranch)
	}

	for {
		r.enter(StateReviewingMessage)
		allowBranch := r.opts.CheckAlignment && !branchHandled
		decision, err := r.prompter.ReviewCommit(msg, allowBranch)
		if err != nil {
			return Result{}, err
		}

		switch decision {
		case DecisionCommit:
			return r.commit(msg, createdBranch)

		case DecisionCancel:
			r.enter(StateCancelled)
			return Result{State: StateCancelled, Message: msg, Branch: createdBranch}, nil

		case DecisionEdit:
			r.enter(StateEditingMessage)
			edited, err := r.editor.Edit(msg)
			if err != nil {
				return Result{}, err
			}
			edited = strings.TrimSpace(edited)
			if edited == "" {
				return Result{}, ErrEmptyMessage
			}
			msg = edited

		case DecisionCreateBranch:
			if !allowBranch {
				continue
			}
			if current == "" {
				current, err = r.git.CurrentBranch()
				if err != nil {
					return Result{}, err
				}
			}
			suggested, err := r.classifier.SuggestBranch(ctx, msg)
			if err != nil {
				r.logger.Warn("branch suggestion failed, synthesizing locally", zap.Error(err))
				suggested = branch.Synthesize(msg)
			}
			r.enter(StateAwaitingBranchDecision)
			dec, err := r.prompter.ResolveBranch(current, suggested, "", false)
			if err != nil {
				return Result{}, err
			}
			branchHandled = true
			if !dec.Create {
				continue
			}
			name := branch.Clean(dec.Name)
			if name == "" {
				name = suggested
			}
			if err := r.createBranch(name); err != nil {
				return Result{}, err
			}
			createdBranch = name
			if r.opts.CommitAfterBranch {
				return r.commit(msg, createdBranch)
			}

		default:
			return Result{}, fmt.Errorf("unknown commit decision %d", decision)
		}
	}
}

// stagedChanges fetches the staged diff and file list concurrently.
func (r *Runner) stagedChanges() (string, []string, error) {
	var (
		wg       sync.WaitGroup
		diff     string
		files    []string
		diffErr  error
		filesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		diff, diffErr = r.git.DiffStaged()
	}()
	go func() {
		defer wg.Done()
		files, filesErr = r.git.StagedFiles()
	}()
	wg.Wait()

	if diffErr != nil {
		return "", nil, diffErr
	}
	if filesErr != nil {
		return "", nil, filesErr
	}
	return diff, files, nil
}

// classify runs the alignment check. In auto-branch mode a classifier
// failure degrades to a locally synthesized branch suggestion rather
// than aborting the run.
func (r *Runner) classify(ctx context.Context, current, msg string, files []string) (align.Verdict, error) {
	recent, err := r.git.RecentCommits(recentCommitCount)
	if err != nil {
		return align.Verdict{}, err
	}

	verdict, err := r.classifier.Classify(ctx, align.Request{
		CurrentBranch: current,
		CommitMessage: msg,
		ChangedFiles:  files,
		RecentCommits: recent,
	})
	if err != nil {
		if r.opts.AutoBranch {
			r.logger.Warn("alignment check failed, synthesizing branch locally", zap.Error(err))
			return align.Verdict{
				Matches:         false,
				Reason:          "alignment check unavailable",
				SuggestedBranch: branch.Synthesize(msg),
			}, nil
		}
		return align.Verdict{}, err
	}
	return verdict, nil
}

func (r *Runner) createBranch(name string) error {
	r.enter(StateCreatingBranch)
	r.logger.Info("creating branch", zap.String("branch", name))
	return r.git.CreateAndSwitchBranch(name)
}

func (r *Runner) commit(msg, createdBranch string) (Result, error) {
	if err := r.git.Commit(msg); err != nil {
		return Result{}, err
	}
	r.enter(StateCommitted)
	r.logger.Info("committed", zap.String("message", msg))
	return Result{State: StateCommitted, Message: msg, Branch: createdBranch}, nil
}

// enter records a state transition in the debug log.
func (r *Runner) enter(s State) {
	r.logger.Debug("entering state", zap.String("state", string(s)))
}
