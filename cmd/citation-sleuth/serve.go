// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/internal/pubmed"
	"github.com/pdiddy/citation-sleuth/internal/server"
	"github.com/pdiddy/citation-sleuth/internal/sleuth"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer usage lookups over HTTP",
	Long: `Serve runs the HTTP API:

  GET /v1/usages?q=<data source>&format=markdown|json|csl|bibtex
  GET /healthz
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := cfg
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		c.Server.Addr = addr
	}

	metrics := observability.NewMetrics()
	client := pubmed.New(c.PubMed, pubmed.WithLogger(logger), pubmed.WithMetrics(metrics))
	srv := server.New(c.Server, sleuth.NewPubMed(client), metrics, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
