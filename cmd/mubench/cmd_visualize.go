package main

import (
	"fmt"
	"path/filepath"

	orchestrators "github.com/ochairo/mubench/internal/domain-orchestrators"
	"github.com/ochairo/mubench/internal/external-adapters/csv"
	"github.com/ochairo/mubench/internal/external-adapters/lipgloss"
	"github.com/spf13/cobra"
)

var chartWidth int

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Summarize the evaluation results of all detectors",
	Long: `Reads the evaluation table of every detector below the results directory,
preferring reviewed-result.csv over result.csv, and writes the recall per
detector to results/result.csv.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		visualizer := orchestrators.NewVisualizer(csv.NewResultTables(), lipgloss.NewChartRenderer(chartWidth), logger.Named("visualize"))

		outputFile := filepath.Join(cfg.ResultsDir, csv.ResultFile)
		result, err := visualizer.Create(cmd.Context(), cfg.ResultsDir, outputFile)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Chart)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", outputFile)
		return nil
	},
}

func init() {
	visualizeCmd.Flags().IntVar(&chartWidth, "width", 40, "Width of the recall bars")
}
