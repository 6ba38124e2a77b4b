// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "citation_sleuth"

// Metrics holds the collectors for outbound E-utilities traffic and record
// assembly. All collectors live on Registry rather than the global default
// registry so that tests and multiple servers in one process do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	// EutilsRequests counts E-utilities requests by endpoint and HTTP status
	// code ("error" when no response was received).
	EutilsRequests *prometheus.CounterVec

	// EutilsRequestDuration observes request latency by endpoint.
	EutilsRequestDuration *prometheus.HistogramVec

	// Records counts citation records assembled.
	Records prometheus.Counter

	// FieldsDefaulted counts fields replaced with the N/A sentinel, by field.
	FieldsDefaulted *prometheus.CounterVec

	// RecordsSkipped counts records dropped because their summary request failed.
	RecordsSkipped prometheus.Counter

	// APIRequests counts requests served by the HTTP API by route and status code.
	APIRequests *prometheus.CounterVec
}

// NewMetrics creates a fresh registry and registers all collectors on it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		EutilsRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eutils_requests_total",
			Help:      "Total E-utilities requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		EutilsRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eutils_request_duration_seconds",
			Help:      "E-utilities request latency by endpoint.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		Records: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total citation records assembled.",
		}),
		FieldsDefaulted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_defaulted_total",
			Help:      "Fields replaced with the N/A sentinel, by field name.",
		}, []string{"field"}),
		RecordsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Records dropped because their summary request failed.",
		}),
		APIRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests served by the HTTP API by route and status code.",
		}, []string{"route", "code"}),
	}
}

// StatusLabel returns the code label for an HTTP status, or "error" when
// the request produced no response.
func StatusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
