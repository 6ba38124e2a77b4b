// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by DefaultConfig and by clients given zero values.
const (
	DefaultBaseURL     = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "citation-sleuth/0.1"
	DefaultMaxResults  = 20
	DefaultRateLimit   = 3.0
	DefaultBurst       = 1
	DefaultConcurrency = 1
	DefaultTool        = "citation-sleuth"
	DefaultCatalogPath = "catalog/docs.db"
	DefaultServerAddr  = ":8080"
)

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-sleuth/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
}

// PubMedConfig holds settings for the E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root; esearch.fcgi and esummary.fcgi are
	// resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// MaxResults is the retmax sent with the search request (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"min=1,max=100"`

	// RateLimit is the sustained request rate in requests per second.
	// NCBI allows 3 req/s without an API key.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit" validate:"gt=0"`

	// Burst is the token bucket size for RateLimit.
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst" validate:"min=1"`

	// Concurrency is the number of summary requests in flight (1 = sequential).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency" validate:"min=1,max=10"`

	// SkipFailedDetails drops records whose summary request failed instead
	// of failing the whole lookup.
	SkipFailedDetails bool `json:"skip_failed_details" yaml:"skip_failed_details" mapstructure:"skip_failed_details"`

	// Tool and Email identify the caller to NCBI. Both are optional; the CLI
	// falls back to DefaultTool when neither config nor secrets name a tool.
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
}

// LoggingConfig selects the zerolog level and writer.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, fatal, panic.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`

	// Format is json, console, or auto (console when the output is a terminal).
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=json console auto"`

	// Output is stderr or stdout.
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"oneof=stderr stdout"`
}

// CatalogConfig locates the SQLite catalog used by the sqlite publish sink.
type CatalogConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
}

// Config groups all settings.
type Config struct {
	PubMed  PubMedConfig  `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the configuration used when no file, env var or
// flag overrides a value.
func DefaultConfig() Config {
	return Config{
		PubMed: PubMedConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			BaseURL:     DefaultBaseURL,
			MaxResults:  DefaultMaxResults,
			RateLimit:   DefaultRateLimit,
			Burst:       DefaultBurst,
			Concurrency: DefaultConcurrency,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
			Output: "stderr",
		},
		Catalog: CatalogConfig{Path: DefaultCatalogPath},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags and reports
// every violation in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
