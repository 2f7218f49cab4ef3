package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hochfrequenz/acc/internal/domain"
	"github.com/hochfrequenz/acc/internal/prompts"
	"github.com/hochfrequenz/acc/internal/report"
	"github.com/hochfrequenz/acc/internal/runstore"
)

var (
	historyLimit int
	infoJSON     bool
)

func init() {
	rootCmd.AddCommand(newLintfixCmd())

	// history command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lint-fix runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)

	// models command
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List known opencode model identifiers",
		Args:  cobra.NoArgs,
		RunE:  runModels,
	}
	rootCmd.AddCommand(modelsCmd)

	// prompts command
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "List prompt templates and where they are loaded from",
		Args:  cobra.NoArgs,
		RunE:  runPrompts,
	}
	rootCmd.AddCommand(promptsCmd)

	// info command
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Display system information",
		Args:  cobra.NoArgs,
		RunE:  runInfo,
	}
	infoCmd.Flags().BoolVarP(&infoJSON, "json", "j", false, "output as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", historyLimit)
	}

	store, err := runstore.New(cfg.History.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRecentRuns(historyLimit)
	if err != nil {
		return err
	}

	report.NewPrinter(cmd.OutOrStdout()).History(runs, time.Now())
	return nil
}

func runModels(cmd *cobra.Command, args []string) error {
	report.NewPrinter(cmd.OutOrStdout()).Models(domain.KnownModels())
	return nil
}

func runPrompts(cmd *cobra.Command, args []string) error {
	root := cfg.Lint.Cwd
	if root == "" {
		root, _ = os.Getwd()
	}

	listings, err := prompts.DefaultLoader(root, cfg.Prompts.OverrideDir).List()
	if err != nil {
		return err
	}
	report.NewPrinter(cmd.OutOrStdout()).Prompts(listings)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	info := report.CollectSystemInfo()
	if infoJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	report.NewPrinter(cmd.OutOrStdout()).Info(info)
	return nil
}
