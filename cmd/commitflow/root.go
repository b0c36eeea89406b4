package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwhitfield/commitflow/align"
	"github.com/mwhitfield/commitflow/config"
	"github.com/mwhitfield/commitflow/git"
	"github.com/mwhitfield/commitflow/llm"
	"github.com/mwhitfield/commitflow/prompt"
	"github.com/mwhitfield/commitflow/ui"
	"github.com/mwhitfield/commitflow/workflow"
)

type rootFlags struct {
	yes        bool
	dryRun     bool
	all        bool
	model      string
	branch     bool
	autoBranch bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "commitflow",
		Short: "Generate, review, and commit with branch alignment checks",
		Long: `commitflow generates a conventional commit message for your staged
changes, optionally checks whether the commit belongs on the current
branch, and commits it — offering to move the work to a new branch
when it doesn't fit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "commit without the interactive review")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "d", false, "generate the message but change nothing")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "stage all tracked changes first")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "completion model to use")
	cmd.Flags().BoolVarP(&flags.branch, "branch", "b", false, "check branch alignment before committing")
	cmd.Flags().BoolVarP(&flags.autoBranch, "auto-branch", "B", false, "create the suggested branch on mismatch without asking")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

func run(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	model := cfg.Model
	if flags.model != "" {
		model = flags.model
	}

	logger, err := newLogger(flags.verbose || cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	apiKey := config.APIKey()
	if apiKey == "" {
		return errors.New("OPENROUTER_API_KEY is not set")
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	repo, err := git.NewContext(wd)
	if err != nil {
		return err
	}

	loader := prompt.NewLoader(wd)
	client, err := llm.NewClient(llm.Config{
		APIKey: apiKey,
		Model:  model,
		Logger: logger,
	}, loader)
	if err != nil {
		return err
	}

	// Alignment needs a branch option somewhere, so auto-branch
	// implies the check.
	checkAlignment := flags.branch || flags.autoBranch

	runner := workflow.NewRunner(workflow.Config{
		Git:        repo,
		Generator:  client,
		Classifier: align.NewAnalyzer(client, loader, logger),
		Prompter:   ui.NewConsolePrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Editor:     &ui.EnvEditor{},
		Options: workflow.Options{
			CheckAlignment:    checkAlignment,
			AutoBranch:        flags.autoBranch,
			AutoCommit:        flags.yes || cfg.AutoCommit,
			DryRun:            flags.dryRun,
			CommitAfterBranch: cfg.CommitAfterBranch,
			StageAll:          flags.all,
		},
		Logger: logger,
	})

	res, err := runner.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, workflow.ErrNoStagedChanges) {
			fmt.Fprintln(cmd.ErrOrStderr(), "You have changes, but nothing is staged. Stage files with `git add` or rerun with --all.")
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case res.NothingToCommit:
		fmt.Fprintln(out, "Nothing to commit, working tree clean.")
	case res.State == workflow.StateCommitted:
		if res.Branch != "" {
			fmt.Fprintf(out, "Committed on new branch %s\n", res.Branch)
		} else {
			fmt.Fprintln(out, "Committed.")
		}
	case res.State == workflow.StateCancelled:
		fmt.Fprintln(out, "Cancelled, nothing committed.")
	default:
		// Dry run: show what would happen.
		fmt.Fprintln(out, res.Message)
		if res.Branch != "" {
			fmt.Fprintf(out, "Would move this commit to branch %s\n", res.Branch)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}
