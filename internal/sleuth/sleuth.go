// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sleuth documents how a data source is used in the literature:
// find publications that reference it, format the top usages as a
// markdown table, and hand the table to a catalog publisher.
package sleuth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/citation-sleuth/internal/pubmed"
	"github.com/pdiddy/citation-sleuth/internal/publish"
	"github.com/pdiddy/citation-sleuth/internal/render"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// Sleuth finds usages of a data source and formats them for documentation.
type Sleuth interface {
	FindUsages(ctx context.Context, dataSource string) ([]types.CitationRecord, error)
	FormatTopUsages(records []types.CitationRecord) string
}

// Finder is the lookup half of a Sleuth. *pubmed.Client implements it.
type Finder interface {
	FindUsages(ctx context.Context, query string) ([]types.CitationRecord, error)
}

// PubMedSleuth is the Sleuth backed by the PubMed E-utilities API.
type PubMedSleuth struct {
	finder Finder
}

var _ Finder = (*pubmed.Client)(nil)

// NewPubMed returns a Sleuth that looks publications up through f.
func NewPubMed(f Finder) *PubMedSleuth {
	return &PubMedSleuth{finder: f}
}

// FindUsages returns the publications referencing dataSource in search order.
func (s *PubMedSleuth) FindUsages(ctx context.Context, dataSource string) ([]types.CitationRecord, error) {
	return s.finder.FindUsages(ctx, dataSource)
}

// FormatTopUsages renders records as the markdown usage table.
func (s *PubMedSleuth) FormatTopUsages(records []types.CitationRecord) string {
	return render.Markdown(records)
}

// Result is what Document produced.
type Result struct {
	Records []types.CitationRecord
	Table   string
}

// Document finds usages of dataSource, renders the table and, when p is
// not nil, publishes it to target. Lookup failures stop before anything is
// published.
func Document(ctx context.Context, s Sleuth, dataSource, target string, p publish.Publisher) (Result, error) {
	if s == nil {
		return Result{}, errors.New("no sleuth configured")
	}
	records, err := s.FindUsages(ctx, dataSource)
	if err != nil {
		return Result{}, fmt.Errorf("finding usages of %q: %w", dataSource, err)
	}
	res := Result{Records: records, Table: s.FormatTopUsages(records)}

	if p == nil {
		return res, nil
	}
	if target == "" {
		target = dataSource
	}
	if err := p.Publish(ctx, target, res.Table); err != nil {
		return res, fmt.Errorf("publishing documentation for %s: %w", target, err)
	}
	return res, nil
}
