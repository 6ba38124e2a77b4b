// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-sleuth/internal/render"
	"github.com/pdiddy/citation-sleuth/internal/report"
)

var publishCmd = &cobra.Command{
	Use:   "publish <target>",
	Short: "Publish a saved report's usage table to a catalog target",
	Long: `Publish re-renders the records of a report written by "usages --save" and
sends the markdown table to the catalog target without querying PubMed again.`,
	Example: `  citation-sleuth publish main.health.meps --report reports/meps.yaml --sink sqlite`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPublish,
}

func init() {
	publishCmd.Flags().String("report", "", "report file written by usages --save (required)")
	publishCmd.Flags().String("sink", sinkConsole, "publish sink: console or sqlite")
	_ = publishCmd.MarkFlagRequired("report")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	target := args[0]
	path, _ := cmd.Flags().GetString("report")
	sink, _ := cmd.Flags().GetString("sink")

	r, err := report.Read(path)
	if err != nil {
		return err
	}

	pub, closeFn, err := openPublisher(sink, cfg.Catalog.Path, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := pub.Publish(cmd.Context(), target, render.Markdown(r.Records)); err != nil {
		return fmt.Errorf("publishing documentation for %s: %w", target, err)
	}
	logger.Info().
		Str("target", target).
		Str("sink", sink).
		Str("run_id", r.Summary.RunID).
		Int("records", len(r.Records)).
		Msg("published report")
	return nil
}
