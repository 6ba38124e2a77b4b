// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.PubMed.MaxResults)
	assert.Equal(t, DefaultBaseURL, cfg.PubMed.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.PubMed.Timeout)
	assert.False(t, cfg.PubMed.SkipFailedDetails)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{
			name:   "email is optional",
			mutate: func(c *Config) { c.PubMed.Email = "" },
		},
		{
			name:   "valid email",
			mutate: func(c *Config) { c.PubMed.Email = "user@example.com" },
		},
		{
			name:    "max results out of range",
			mutate:  func(c *Config) { c.PubMed.MaxResults = 0 },
			wantErr: []string{"MaxResults", "min"},
		},
		{
			name:    "concurrency above limit",
			mutate:  func(c *Config) { c.PubMed.Concurrency = 11 },
			wantErr: []string{"Concurrency", "max"},
		},
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.PubMed.BaseURL = "not a url" },
			wantErr: []string{"BaseURL", "url"},
		},
		{
			name:    "bad email",
			mutate:  func(c *Config) { c.PubMed.Email = "nobody" },
			wantErr: []string{"Email"},
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.PubMed.RateLimit = 0 },
			wantErr: []string{"RateLimit"},
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: []string{"Format", "oneof"},
		},
		{
			name: "multiple violations reported together",
			mutate: func(c *Config) {
				c.PubMed.UserAgent = ""
				c.Catalog.Path = ""
			},
			wantErr: []string{"UserAgent", "Catalog.Path"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
