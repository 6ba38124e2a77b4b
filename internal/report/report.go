// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report saves a usage lookup and its records to a YAML file so the
// table can be re-rendered or published later without re-querying PubMed.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// Report is the on-disk representation of one lookup.
type Report struct {
	Query   string                 `yaml:"query"`
	Config  Config                 `yaml:"config"`
	Records []types.CitationRecord `yaml:"records"`
	Summary Summary                `yaml:"summary"`
}

// Config stores the settings that produced the records.
type Config struct {
	MaxResults int `yaml:"max_results"`
}

// Summary stores result statistics, the run ID and a timestamp.
type Summary struct {
	Total     int       `yaml:"total"`
	RunID     string    `yaml:"run_id"`
	Timestamp time.Time `yaml:"timestamp"`
}

// New builds a report for records found by query. runID may be empty, in
// which case a fresh one is generated.
func New(query string, maxResults int, records []types.CitationRecord, runID string) Report {
	if runID == "" {
		runID = NewRunID()
	}
	if records == nil {
		records = []types.CitationRecord{}
	}
	return Report{
		Query:   query,
		Config:  Config{MaxResults: maxResults},
		Records: records,
		Summary: Summary{
			Total:     len(records),
			RunID:     runID,
			Timestamp: time.Now().UTC(),
		},
	}
}

// NewRunID returns an identifier for one lookup, shared by its logs and report.
func NewRunID() string {
	return uuid.NewString()
}

// Write saves r to path, creating parent directories as needed.
func Write(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously saved report from disk.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if r.Records == nil {
		r.Records = []types.CitationRecord{}
	}
	return &r, nil
}
