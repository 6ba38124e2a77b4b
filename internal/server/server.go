// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes usage lookups over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/internal/pubmed"
	"github.com/pdiddy/citation-sleuth/internal/render"
	"github.com/pdiddy/citation-sleuth/internal/sleuth"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	sleuth     sleuth.Sleuth
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// New creates a server answering lookups with s. metrics may be nil, in
// which case /metrics is not mounted.
func New(cfg types.ServerConfig, s sleuth.Sleuth, metrics *observability.Metrics, logger zerolog.Logger) *Server {
	srv := &Server{
		sleuth:  s,
		metrics: metrics,
		logger:  logger.With().Str("component", "http-server").Logger(),
	}
	srv.router = srv.buildRouter()
	srv.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.healthHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/usages", s.usagesHandler)
	})

	return r
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// usagesHandler answers GET /v1/usages?q=<query>&format=<format>.
func (s *Server) usagesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.sleuth.FindUsages(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, pubmed.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, err.Error())
		case r.Context().Err() != nil:
			// Client went away; nothing useful to send.
			s.logger.Debug().Err(err).Str("query", query).Msg("lookup cancelled")
		default:
			s.logger.Error().Err(err).Str("query", query).Msg("lookup failed")
			writeError(w, http.StatusBadGateway, "PubMed lookup failed")
		}
		return
	}

	var body bytes.Buffer
	if format == render.FormatMarkdown {
		body.WriteString(s.sleuth.FormatTopUsages(records))
	} else if err := render.Write(&body, format, records); err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("rendering failed")
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

// accessLog logs each request at info and counts it by route pattern.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.APIRequests.WithLabelValues(route, observability.StatusLabel(status)).Inc()
		}
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
