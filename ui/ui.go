// Package ui implements the interactive console surface: the commit
// review prompt, the branch decision prompt, and editor invocation.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwhitfield/commitflow/branch"
	"github.com/mwhitfield/commitflow/workflow"
)

// maxPromptAttempts bounds how long an unparseable answer can loop.
const maxPromptAttempts = 5

// ErrTooManyAttempts is returned when the user keeps entering answers
// the prompt cannot parse.
var ErrTooManyAttempts = errors.New("ui: too many invalid answers")

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	branchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var messageStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

// ConsolePrompter reads decisions from an input stream and writes
// prompts to an output stream. It implements workflow.Prompter.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter over the given streams.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReviewCommit displays the proposed message and asks for a decision.
// Branching is offered only when allowBranch is set.
func (p *ConsolePrompter) ReviewCommit(message string, allowBranch bool) (workflow.CommitDecision, error) {
	fmt.Fprintln(p.out, headerStyle.Render("Proposed commit message:"))
	fmt.Fprintln(p.out, messageStyle.Render(message))

	choices := "[y]es / [n]o / [e]dit"
	if allowBranch {
		choices += " / [b]ranch"
	}

	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprintf(p.out, "Commit this message? %s: ", dimStyle.Render(choices))
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return workflow.DecisionCommit, nil
		case "n", "no":
			return workflow.DecisionCancel, nil
		case "e", "edit":
			return workflow.DecisionEdit, nil
		case "b", "branch":
			if allowBranch {
				return workflow.DecisionCreateBranch, nil
			}
		}
		fmt.Fprintln(p.out, warningStyle.Render("Please answer "+choices))
	}
	return 0, ErrTooManyAttempts
}

// ResolveBranch presents a suggested branch and asks whether to create
// it. The user may edit the name; edited names are normalized to the
// branch charset.
func (p *ConsolePrompter) ResolveBranch(current, suggested, reason string, mismatch bool) (workflow.BranchDecision, error) {
	if mismatch {
		fmt.Fprintln(p.out, warningStyle.Render(
			fmt.Sprintf("This commit doesn't look like it belongs on %q.", current)))
		if reason != "" {
			fmt.Fprintln(p.out, dimStyle.Render("  "+reason))
		}
	}
	fmt.Fprintf(p.out, "Suggested branch: %s\n", branchStyle.Render(suggested))

	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprintf(p.out, "Create it? %s: ", dimStyle.Render("[y]es / [n]o / [e]dit name"))
		answer, err := p.readLine()
		if err != nil {
			return workflow.BranchDecision{}, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return workflow.BranchDecision{Create: true, Name: suggested}, nil
		case "n", "no":
			return workflow.BranchDecision{}, nil
		case "e", "edit":
			name, err := p.readBranchName()
			if err != nil {
				return workflow.BranchDecision{}, err
			}
			if name == "" {
				fmt.Fprintln(p.out, warningStyle.Render("Branch name cannot be empty"))
				continue
			}
			return workflow.BranchDecision{Create: true, Name: name}, nil
		}
		fmt.Fprintln(p.out, warningStyle.Render("Please answer y, n, or e"))
	}
	return workflow.BranchDecision{}, ErrTooManyAttempts
}

func (p *ConsolePrompter) readBranchName() (string, error) {
	fmt.Fprint(p.out, "Branch name: ")
	raw, err := p.readLine()
	if err != nil {
		return "", err
	}
	return branch.Clean(raw), nil
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
