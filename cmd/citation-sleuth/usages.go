// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/internal/publish"
	"github.com/pdiddy/citation-sleuth/internal/pubmed"
	"github.com/pdiddy/citation-sleuth/internal/render"
	"github.com/pdiddy/citation-sleuth/internal/report"
	"github.com/pdiddy/citation-sleuth/internal/sleuth"
)

// Publish sinks.
const (
	sinkConsole = "console"
	sinkSQLite  = "sqlite"
)

var usagesCmd = &cobra.Command{
	Use:   "usages [data source...]",
	Short: "Find publications that reference a data source",
	Long: `Usages searches PubMed for the data source name, fetches a summary for each
matching publication and prints the top usages as a markdown table (or as JSON,
CSL-YAML or BibTeX with --format).

With --publish the table is also sent to a catalog documentation entry, either
printed (--sink console) or stored in the local SQLite catalog (--sink sqlite).
Use --save to keep the records in a YAML report that "publish" can replay.`,
	Example: `  citation-sleuth usages "Medical Expenditure Panel Survey"
  citation-sleuth usages --query MEPS --format bibtex
  citation-sleuth usages MEPS --publish main.health.meps --sink sqlite --save reports/meps.yaml`,
	RunE: runUsages,
}

func init() {
	usagesCmd.Flags().String("query", "", "data source name (alternative to positional arguments)")
	usagesCmd.Flags().Int("max-results", 0, "maximum number of publications to look up (default from config, 20)")
	usagesCmd.Flags().String("format", string(render.FormatMarkdown), "output format: markdown, json, csl, bibtex")
	usagesCmd.Flags().String("save", "", "write a YAML report of the records to this path")
	usagesCmd.Flags().String("publish", "", "catalog target to publish the table to (e.g. main.health.meps)")
	usagesCmd.Flags().String("sink", sinkConsole, "publish sink: console or sqlite")
	usagesCmd.Flags().Int("concurrency", 0, "summary requests in flight (default from config, 1)")
	usagesCmd.Flags().Bool("skip-failed", false, "omit publications whose summary request fails instead of aborting")
	usagesCmd.Flags().String("metrics-file", "", "write Prometheus metrics in textfile format to this path")

	rootCmd.AddCommand(usagesCmd)
}

func runUsages(cmd *cobra.Command, args []string) error {
	query := queryFromArgs(cmd, args)
	if query == "" {
		return configErrorf("%w", pubmed.ErrEmptyQuery)
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return configErrorf("%w", err)
	}

	c := cfg
	if cmd.Flags().Changed("max-results") {
		c.PubMed.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if cmd.Flags().Changed("concurrency") {
		c.PubMed.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if skip, _ := cmd.Flags().GetBool("skip-failed"); skip {
		c.PubMed.SkipFailedDetails = true
	}
	if err := c.Validate(); err != nil {
		return configErrorf("%w", err)
	}

	target, _ := cmd.Flags().GetString("publish")
	sink, _ := cmd.Flags().GetString("sink")
	out := cmd.OutOrStdout()

	var pub publish.Publisher
	if target != "" {
		p, closeFn, err := openPublisher(sink, c.Catalog.Path, out)
		if err != nil {
			return err
		}
		defer closeFn()
		pub = p
	}

	metrics := observability.NewMetrics()
	runID := report.NewRunID()
	log := observability.WithRun(logger, runID, query)

	client := pubmed.New(c.PubMed, pubmed.WithLogger(log), pubmed.WithMetrics(metrics))
	s := sleuth.NewPubMed(client)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("max_results", c.PubMed.MaxResults).Msg("looking up usages")
	res, err := sleuth.Document(ctx, s, query, target, pub)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}
	log.Info().Int("records", len(res.Records)).Msg("lookup complete")

	// The console sink has already printed the markdown table.
	consolePublished := pub != nil && (sink == "" || sink == sinkConsole)
	switch {
	case format == render.FormatMarkdown && consolePublished:
	case format == render.FormatMarkdown:
		_, err = io.WriteString(out, res.Table)
	default:
		err = render.Write(out, format, res.Records)
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := report.Write(path, report.New(query, c.PubMed.MaxResults, res.Records, runID)); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("report saved")
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return err
		}
	}
	return nil
}

// queryFromArgs returns the --query flag when set, otherwise the positional
// arguments joined by spaces.
func queryFromArgs(cmd *cobra.Command, args []string) string {
	if q, _ := cmd.Flags().GetString("query"); strings.TrimSpace(q) != "" {
		return strings.TrimSpace(q)
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

// openPublisher returns the publisher for sink and a function releasing it.
func openPublisher(sink, catalogPath string, out io.Writer) (publish.Publisher, func() error, error) {
	switch sink {
	case "", sinkConsole:
		return publish.Console{W: out}, func() error { return nil }, nil
	case sinkSQLite:
		cat, err := publish.OpenSQLiteCatalog(catalogPath)
		if err != nil {
			return nil, nil, err
		}
		return cat, cat.Close, nil
	default:
		return nil, nil, configErrorf("unknown sink %q (want console or sqlite)", sink)
	}
}
