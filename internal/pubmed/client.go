// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed finds publications that reference a data source through
// the NCBI E-utilities API: one esearch call for the identifier list, then
// one esummary call per identifier to assemble a CitationRecord.
//
// E-utilities documentation: https://www.ncbi.nlm.nih.gov/books/NBK25499/
package pubmed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citation-sleuth/internal/httputil"
	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// Database is the Entrez database every request targets.
const Database = "pubmed"

// ErrEmptyQuery is returned when the query is blank after trimming.
var ErrEmptyQuery = errors.New("query is empty: provide the name of a data source")

// Client talks to esearch.fcgi and esummary.fcgi.
type Client struct {
	cfg     types.PubMedConfig
	http    *httputil.Client
	logger  zerolog.Logger
	metrics *observability.Metrics
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying *http.Client (for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics the client records into.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client. Zero-valued config fields take the package defaults.
func New(cfg types.PubMedConfig, opts ...Option) *Client {
	applyDefaults(&cfg)
	c := &Client{
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetrics()
	}
	c.http = httputil.NewClient(cfg.HTTPConfig, cfg.RateLimit, cfg.Burst, c.hc, c.metrics)
	return c
}

func applyDefaults(cfg *types.PubMedConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = types.DefaultMaxResults
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = types.DefaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = types.DefaultBurst
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = types.DefaultConcurrency
	}
}

// Config returns the effective configuration after defaults.
func (c *Client) Config() types.PubMedConfig { return c.cfg }

// FindUsages searches PubMed for query and returns one record per
// identifier, in the order esearch returned them. No search hits yields an
// empty slice and no error. A failed search is always fatal; a failed
// summary is fatal unless SkipFailedDetails is set, in which case the
// record is dropped.
func (c *Client) FindUsages(ctx context.Context, query string) ([]types.CitationRecord, error) {
	ids, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.logger.Info().Msg("no publications found")
		return []types.CitationRecord{}, nil
	}

	slots := make([]*types.CitationRecord, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)

	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := c.Summary(gctx, id)
			if err != nil {
				if c.cfg.SkipFailedDetails && ctx.Err() == nil {
					c.logger.Warn().Err(err).Str("pmid", id).Msg("skipping publication")
					c.metrics.RecordsSkipped.Inc()
					return nil
				}
				return fmt.Errorf("fetching summary for %s: %w", id, err)
			}
			slots[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]types.CitationRecord, 0, len(ids))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	c.logger.Info().Int("found", len(ids)).Int("records", len(records)).Msg("assembled citation records")
	return records, nil
}

// Search runs esearch for query and returns the PMID list.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := c.baseParams()
	params.Set("term", query)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(c.cfg.MaxResults))

	body, err := c.http.Get(ctx, "esearch", c.cfg.BaseURL+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching PubMed: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	if resp.Result == nil {
		return []string{}, nil
	}

	ids := make([]string, 0, len(resp.Result.IDList))
	for _, id := range resp.Result.IDList {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c.logger.Debug().Int("ids", len(ids)).RawJSON("count", countJSON(resp.Result.Count)).Msg("esearch complete")
	return ids, nil
}

// Summary runs esummary for one PMID and builds its record. Fields missing
// from the response are set to types.NotAvailable; only transport and
// status failures are errors.
func (c *Client) Summary(ctx context.Context, pmid string) (types.CitationRecord, error) {
	params := c.baseParams()
	params.Set("id", pmid)
	params.Set("retmode", "xml")

	body, err := c.http.Get(ctx, "esummary", c.cfg.BaseURL+"/esummary.fcgi?"+params.Encode())
	if err != nil {
		return types.CitationRecord{}, err
	}

	items := extractItems(body, summaryItems...)
	for _, name := range summaryItems {
		if _, ok := items[name]; !ok {
			c.metrics.FieldsDefaulted.WithLabelValues(name).Inc()
		}
	}
	c.metrics.Records.Inc()
	c.logger.Debug().Str("pmid", pmid).Int("fields", len(items)).Msg("esummary complete")

	return types.NewCitationRecord(
		pmid,
		items[ItemTitle],
		items[ItemEPubDate],
		items[ItemDOI],
		items[ItemPmcRefCount],
	), nil
}

// countJSON returns raw for logging, or null when the field was absent.
func countJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}

func (c *Client) baseParams() url.Values {
	params := url.Values{"db": {Database}}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	return params
}
