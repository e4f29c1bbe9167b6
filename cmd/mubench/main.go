// Package main provides the mubench CLI for benchmarking API-misuse detectors.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochairo/mubench/internal/config"
	zapadapter "github.com/ochairo/mubench/internal/external-adapters/zap"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	dataDir      string
	checkoutsDir string
	resultsDir   string
	detectorsDir string
	logFile      string

	cfg    = config.Default()
	logger = zapadapter.Wrap(nil)
)

// errVersionsFailed makes the process exit non-zero after a batch with failures
var errVersionsFailed = errors.New("one or more versions failed")

var rootCmd = &cobra.Command{
	Use:   "mubench",
	Short: "mubench - benchmark harness for API-misuse detectors",
	Long: `mubench checks out the projects of a misuse dataset, compiles the
project versions, runs a detector against each of them and evaluates
which known misuses it found.

Every step keeps its state under the checkouts and results directories,
so repeated invocations only redo what is missing or outdated.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, loaded)
		if err := loaded.ResolvePaths(); err != nil {
			return err
		}
		cfg = loaded

		logger, err = zapadapter.NewLogger(zapadapter.Options{Verbose: verbose, LogFile: cfg.LogFile})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Close()
	},
}

// applyFlagOverrides lets explicitly set flags win over the config file
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if flags.Changed("checkouts") {
		c.CheckoutsDir = checkoutsDir
	}
	if flags.Changed("results") {
		c.ResultsDir = resultsDir
	}
	if flags.Changed("detectors") {
		c.DetectorsDir = detectorsDir
	}
	if flags.Changed("log-file") {
		c.LogFile = logFile
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on the console")
	flags.StringVar(&configPath, "config", config.DefaultFile, "Configuration file")
	flags.StringVar(&dataDir, "data", "data", "Dataset directory")
	flags.StringVar(&checkoutsDir, "checkouts", "checkouts", "Directory for checkouts and builds")
	flags.StringVar(&resultsDir, "results", "results", "Directory for detector results")
	flags.StringVar(&detectorsDir, "detectors", "detectors", "Directory of detector descriptors")
	flags.StringVar(&logFile, "log-file", "out.log", "Debug log file (empty disables)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(visualizeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(publishCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
