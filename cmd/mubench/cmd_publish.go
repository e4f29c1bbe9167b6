package main

import (
	"os"

	"github.com/ochairo/mubench/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/mubench/internal/domain-orchestrators"
	"github.com/spf13/cobra"
)

var (
	publishOpts pipelineOptions
	reviewSite  string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish benchmark data to a review site",
}

var publishMetadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Upload misuse metadata and code snippets to the review site",
	Long: `Checks out the selected versions and uploads, for every misuse, its
description, fix, location, violation types, precomputed patterns and the
source of the misused method to <review-site>/api/metadata.`,
	Example: `  mubench publish metadata --review-site http://localhost:8080/`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		siteURL := cfg.ReviewSite
		if cmd.Flags().Changed("review-site") {
			siteURL = reviewSite
		}

		tasks, err := buildTasks(stageCheckout, "", &publishOpts)
		if err != nil {
			return err
		}
		tasks = append(tasks, orchestrators.NewPublishTask(
			gateways.NewReviewSitePublisher(logger.Named("publish")),
			newCheckoutRuns(),
			os.ReadFile,
			siteURL,
			logger.Named("publish"),
		))

		return runTasks(cmd.Context(), cmd.OutOrStdout(), tasks, "", &publishOpts, true)
	},
}

func init() {
	publishOpts.addFlags(publishMetadataCmd, stageCheckout)
	publishMetadataCmd.Flags().StringVar(&reviewSite, "review-site", "", "Base URL of the review site (overrides the config)")

	publishCmd.AddCommand(publishMetadataCmd)
}
