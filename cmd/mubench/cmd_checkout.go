package main

import (
	"github.com/spf13/cobra"
)

var (
	checkoutOpts pipelineOptions
	compileOpts  pipelineOptions
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out the project versions of the dataset",
	Example: `  mubench checkout
  mubench checkout --only aclang --skip aclang.587 --force-checkout`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout(), stageCheckout, "", &checkoutOpts)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Check out and compile the project versions of the dataset",
	Long: `Builds every selected version with the commands of its version.yml and
collects sources, classes and precomputed patterns under build/.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout(), stageCompile, "", &compileOpts)
	},
}

func init() {
	checkoutOpts.addFlags(checkoutCmd, stageCheckout)
	compileOpts.addFlags(compileCmd, stageCompile)
}
