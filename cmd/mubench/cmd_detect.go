package main

import (
	"github.com/spf13/cobra"
)

var (
	detectOpts pipelineOptions
	evalOpts   pipelineOptions
)

var detectCmd = &cobra.Command{
	Use:   "detect <detector>",
	Short: "Run a detector against every compiled version",
	Long: `Checks out and compiles the selected versions, then runs the detector
found in the detectors directory. Findings are written to
results/<detector>/<project>/<version>/findings.yml.

A version is only analyzed again when its previous result is missing,
was produced by a different detector release or configuration, or when
--force-detect is given. A detector that runs into the timeout is
recorded as successful with no findings.`,
	Example: `  mubench detect dmmc
  mubench detect dmmc --only aclang --timeout 300 --experiment provided-patterns`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout(), stageDetect, args[0], &detectOpts)
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval <detector>",
	Short: "Detect and evaluate which known misuses a detector finds",
	Long: `Runs the detect pipeline and classifies every misuse as hit or miss
by comparing its location with the findings. The table is written to
results/<detector>/result.csv.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout(), stageEvaluate, args[0], &evalOpts)
	},
}

func init() {
	detectOpts.addFlags(detectCmd, stageDetect)
	evalOpts.addFlags(evalCmd, stageEvaluate)
}
