// Package align decides whether a commit belongs on the current branch.
//
// The Analyzer renders an alignment prompt from the repository state,
// sends it to a completion backend, and parses the strict JSON verdict
// the model is instructed to return. Responses wrapped in markdown code
// fences are tolerated; anything else that is not the expected JSON
// object is rejected as malformed.
package align

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mwhitfield/commitflow/branch"
	"github.com/mwhitfield/commitflow/prompt"
)

// Completer is the minimal completion surface the analyzer needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request carries the repository state the classifier reasons over.
type Request struct {
	CurrentBranch string
	CommitMessage string
	ChangedFiles  []string
	RecentCommits string
}

// Verdict is the classifier's answer. Matches reports whether the
// commit fits the current branch; when it does not, SuggestedBranch
// proposes where the work should go.
type Verdict struct {
	Matches         bool   `json:"matches"`
	Reason          string `json:"reason"`
	SuggestedBranch string `json:"suggested_branch,omitempty"`
}

// MalformedResponseError reports a completion that could not be parsed
// as a verdict. Raw preserves the original response for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed alignment response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Analyzer classifies commits against branches using a completion backend.
type Analyzer struct {
	completer Completer
	loader    *prompt.Loader
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer. A nil logger disables logging.
func NewAnalyzer(completer Completer, loader *prompt.Loader, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		completer: completer,
		loader:    loader,
		logger:    logger,
	}
}

// Classify asks the backend whether the commit belongs on the current
// branch. A verdict of Matches=true on a protected branch is overridden
// to a mismatch: feature work never lands directly on main or its kin,
// regardless of what the model says.
func (a *Analyzer) Classify(ctx context.Context, req Request) (Verdict, error) {
	text, err := a.loader.LoadWithVars("branch_alignment", map[string]any{
		"CurrentBranch": req.CurrentBranch,
		"RecentCommits": req.RecentCommits,
		"ChangedFiles":  req.ChangedFiles,
		"CommitMessage": req.CommitMessage,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("loading alignment prompt: %w", err)
	}

	raw, err := a.completer.Complete(ctx, text)
	if err != nil {
		return Verdict{}, err
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return Verdict{}, err
	}

	if verdict.Matches && branch.IsProtected(req.CurrentBranch) {
		a.logger.Debug("overriding match on protected branch",
			zap.String("branch", req.CurrentBranch))
		verdict.Matches = false
		verdict.Reason = fmt.Sprintf("direct commits to %s are not allowed", req.CurrentBranch)
		if verdict.SuggestedBranch == "" {
			verdict.SuggestedBranch = branch.Synthesize(req.CommitMessage)
		}
	}

	a.logger.Debug("alignment verdict",
		zap.Bool("matches", verdict.Matches),
		zap.String("suggested_branch", verdict.SuggestedBranch))
	return verdict, nil
}

// SuggestBranch asks the backend for a branch name fitting the commit
// message. The response is cleaned to the allowed branch charset.
func (a *Analyzer) SuggestBranch(ctx context.Context, message string) (string, error) {
	text, err := a.loader.LoadWithVars("branch_suggestion", map[string]any{
		"CommitMessage": message,
	})
	if err != nil {
		return "", fmt.Errorf("loading suggestion prompt: %w", err)
	}

	raw, err := a.completer.Complete(ctx, text)
	if err != nil {
		return "", err
	}

	name := branch.Clean(stripFence(raw))
	if name == "" {
		return "", &MalformedResponseError{Raw: raw, Err: fmt.Errorf("empty branch suggestion")}
	}
	return name, nil
}

// parseVerdict decodes a completion into a Verdict. The model sometimes
// wraps its JSON in a markdown code fence; that wrapper is removed
// before decoding. Unknown fields, missing required fields, and
// trailing garbage are all rejected.
func parseVerdict(raw string) (Verdict, error) {
	body := stripFence(raw)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	// Pointer fields distinguish a missing key from a zero value.
	var v struct {
		Matches         *bool   `json:"matches"`
		Reason          *string `json:"reason"`
		SuggestedBranch string  `json:"suggested_branch"`
	}
	if err := dec.Decode(&v); err != nil {
		return Verdict{}, &MalformedResponseError{Raw: raw, Err: err}
	}

	if dec.More() {
		return Verdict{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("trailing data after JSON object")}
	}
	if v.Matches == nil {
		return Verdict{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("missing required field %q", "matches")}
	}
	if v.Reason == nil {
		return Verdict{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("missing required field %q", "reason")}
	}

	return Verdict{
		Matches:         *v.Matches,
		Reason:          *v.Reason,
		SuggestedBranch: v.SuggestedBranch,
	}, nil
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
