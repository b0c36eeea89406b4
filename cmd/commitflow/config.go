package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mwhitfield/commitflow/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path, err := config.Path()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:         %s\n", path)
			fmt.Fprintf(out, "auto-commit:         %v\n", cfg.AutoCommit)
			fmt.Fprintf(out, "commit-after-branch: %v\n", cfg.CommitAfterBranch)
			model := cfg.Model
			if model == "" {
				model = "(default)"
			}
			fmt.Fprintf(out, "model:               %s\n", model)
			fmt.Fprintf(out, "verbose:             %v\n", cfg.Verbose)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Keys:

  auto-commit          commit without the interactive review (true/false)
  commit-after-branch  commit right after creating a branch (true/false)
  model                completion model name
  verbose              enable debug logging (true/false)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applySetting(&cfg, args[0], args[1]); err != nil {
				return err
			}
			return cfg.Save()
		},
	}
}

func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "auto-commit":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		cfg.AutoCommit = v
	case "commit-after-branch":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		cfg.CommitAfterBranch = v
	case "model":
		cfg.Model = value
	case "verbose":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		cfg.Verbose = v
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s expects true or false, got %q", key, value)
	}
	return v, nil
}
