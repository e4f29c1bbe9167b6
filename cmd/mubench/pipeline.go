package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/mubench/internal/domain-orchestrators"
	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	"github.com/ochairo/mubench/internal/external-adapters/csv"
	"github.com/ochairo/mubench/internal/external-adapters/sqlite"
	"github.com/ochairo/mubench/internal/external-adapters/yaml"
	"github.com/spf13/cobra"
)

// stage is the last task of the chain a command runs
type stage int

const (
	stageCheck stage = iota
	stageCheckout
	stageCompile
	stageDetect
	stageEvaluate
)

// pipelineOptions holds the flags of the task-chain commands
type pipelineOptions struct {
	only          []string
	skip          []string
	forceCheckout bool
	forceCompile  bool
	forceDetect   bool
	timeout       int
	experiment    string
	detectorArgs  []string
}

func (o *pipelineOptions) addFlags(cmd *cobra.Command, upTo stage) {
	flags := cmd.Flags()
	flags.StringSliceVar(&o.only, "only", nil, "Process only versions whose id contains one of these")
	flags.StringSliceVar(&o.skip, "skip", nil, "Skip versions whose id contains one of these")
	flags.BoolVar(&o.forceCheckout, "force-checkout", false, "Check out again even if a checkout exists")
	if upTo >= stageCompile {
		flags.BoolVar(&o.forceCompile, "force-compile", false, "Compile again even if a build exists")
	}
	if upTo >= stageDetect {
		flags.BoolVar(&o.forceDetect, "force-detect", false, "Run the detector again even if results exist")
		flags.IntVar(&o.timeout, "timeout", 0, "Detector timeout per version in seconds (0 uses the config)")
		flags.StringVar(&o.experiment, "experiment", "", "Experiment: provided-patterns, top-findings or benchmark")
		flags.StringArrayVar(&o.detectorArgs, "arg", nil, "Extra argument passed to the detector (repeatable)")
	}
}

// runPipeline runs the task chain up to the given stage and prints the summary
func runPipeline(ctx context.Context, out io.Writer, upTo stage, detectorName string, opts *pipelineOptions) error {
	tasks, err := buildTasks(upTo, detectorName, opts)
	if err != nil {
		return err
	}
	return runTasks(ctx, out, tasks, detectorName, opts, upTo > stageCheck)
}

// runTasks applies tasks to the selected versions. withHistory records every
// task execution in the run history.
func runTasks(ctx context.Context, out io.Writer, tasks []orchestrators.Task, detectorName string, opts *pipelineOptions, withHistory bool) error {
	var history repositories.HistoryRepository
	if withHistory {
		ledger, err := sqlite.NewHistoryRepository(filepath.Join(cfg.ResultsDir, sqlite.HistoryFile))
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer func() { _ = ledger.Close() }()
		history = ledger
	}

	dataset := yaml.NewDatasetRepository(cfg.DataDir, logger.Named("dataset"))
	runner := orchestrators.NewTaskRunner(dataset, history, logger, orchestrators.TaskRunnerConfig{
		WhiteList: opts.only,
		BlackList: opts.skip,
		Detector:  detectorName,
	})
	for _, task := range tasks {
		runner.Add(task)
	}

	summary, err := runner.Run(ctx)
	if withHistory && summary != nil {
		fmt.Fprint(out, summary.String())
	}
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return errVersionsFailed
	}
	fmt.Fprintln(out, "✅ Done")
	return nil
}

// newCheckoutRuns opens the run store of checkout and compile, which share
// the per-version directory under the checkouts root
func newCheckoutRuns() *yaml.RunRepository {
	return yaml.NewRunRepository(cfg.CheckoutsDir).
		WithArtifactCheck(entities.TaskCheckout, yaml.DirectoryArtifact(entities.CheckoutDir)).
		WithArtifactCheck(entities.TaskCompile, yaml.DirectoryArtifact(entities.BuildDir))
}

// newResultRuns opens the run store of a detector's results directory
func newResultRuns(detectorName string, findings *yaml.FindingsStore) *yaml.RunRepository {
	return yaml.NewRunRepository(filepath.Join(cfg.ResultsDir, detectorName)).
		WithArtifactCheck(entities.TaskDetect, yaml.FindingsArtifact(findings))
}

func buildTasks(upTo stage, detectorName string, opts *pipelineOptions) ([]orchestrators.Task, error) {
	dirs := []string{cfg.DataDir}
	if upTo >= stageDetect {
		dirs = append(dirs, cfg.DetectorsDir)
	}
	tasks := []orchestrators.Task{
		orchestrators.NewCheckTask(exec.LookPath, cfg.RequiredTools, dirs, logger.Named("check")),
	}
	if upTo < stageCheckout {
		return tasks, nil
	}

	executor := gateways.NewCommandExecutor(logger.Named("exec"))
	downloader := gateways.NewDownloader(logger.Named("download"))
	checkoutRuns := newCheckoutRuns()

	tasks = append(tasks, orchestrators.NewCheckoutTask(
		gateways.NewRepositoryCheckout(executor, downloader, logger.Named("checkout")),
		checkoutRuns, opts.forceCheckout, logger.Named("checkout"),
	))
	if upTo < stageCompile {
		return tasks, nil
	}

	tasks = append(tasks, orchestrators.NewCompileTask(
		gateways.NewProjectCompiler(executor, cfg.PatternFrequency, logger.Named("compile")),
		checkoutRuns, opts.forceCompile, logger.Named("compile"),
	))
	if upTo < stageDetect {
		return tasks, nil
	}

	detector, err := yaml.NewDetectorRepository(cfg.DetectorsDir).GetDetector(detectorName)
	if err != nil {
		return nil, err
	}

	experimentName := opts.experiment
	if experimentName == "" {
		experimentName = cfg.Experiment
	}
	experiment, ok := entities.ParseExperiment(experimentName)
	if !ok {
		return nil, fmt.Errorf("unknown experiment %q", experimentName)
	}

	timeout := cfg.DetectorTimeout()
	if opts.timeout > 0 {
		timeout = time.Duration(opts.timeout) * time.Second
	}

	findings := yaml.NewFindingsStore()
	resultRuns := newResultRuns(detectorName, findings)

	tasks = append(tasks, orchestrators.NewDetectTask(
		detector,
		gateways.NewDetectorInstaller(downloader, gateways.NewReleaseVerifier(), logger.Named("install")),
		gateways.NewDetectorExecutor(executor, logger.Named("detector")),
		findings,
		checkoutRuns,
		resultRuns,
		orchestrators.DetectTaskConfig{
			Experiment: experiment,
			ExtraArgs:  opts.detectorArgs,
			Timeout:    timeout,
			Force:      opts.forceDetect,
		},
		logger.Named("detect"),
	))
	if upTo < stageEvaluate {
		return tasks, nil
	}

	tasks = append(tasks, orchestrators.NewEvaluationTask(
		detectorName,
		resultRuns,
		findings,
		csv.NewResultTables(),
		filepath.Join(cfg.ResultsDir, detectorName, csv.ResultFile),
		logger.Named("eval"),
	))
	return tasks, nil
}
