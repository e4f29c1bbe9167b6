package main

import (
	"fmt"
	"path/filepath"

	"github.com/ochairo/mubench/internal/external-adapters/lipgloss"
	"github.com/ochairo/mubench/internal/external-adapters/sqlite"
	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyDetector string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent task runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ledger, err := sqlite.NewHistoryRepository(filepath.Join(cfg.ResultsDir, sqlite.HistoryFile))
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer func() { _ = ledger.Close() }()

		entries, err := ledger.Recent(cmd.Context(), historyDetector, historyLimit)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), lipgloss.HistoryTable(entries))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	historyCmd.Flags().StringVar(&historyDetector, "detector", "", "Only show runs of this detector")
}
