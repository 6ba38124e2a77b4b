// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-sleuth CLI.
// citation-sleuth finds PubMed publications that reference a data source,
// renders them as a markdown usage table and publishes the table to a
// catalog's documentation entry.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/internal/secrets"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the configuration resolved from defaults, file, env and secrets.
	cfg = types.DefaultConfig()

	// logger is built from cfg.Logging once the config is loaded.
	logger = zerolog.Nop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets = secrets.Store{}
)

// rootCmd is the base command for the citation-sleuth CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-sleuth",
	Short: "Document how data sources are used in the literature",
	Long: `citation-sleuth searches PubMed for publications that reference a data
source, extracts title, publication date, DOI and PMC reference count for each,
and renders the results as a markdown table for a catalog's documentation.

Run "citation-sleuth usages <data source>" to look a source up, or
"citation-sleuth serve" to answer lookups over HTTP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-sleuth.yaml or ~/.config/citation-sleuth/citation-sleuth.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files (ncbi-email, ncbi-tool)")
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-sleuth")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-sleuth"))
		}
	}

	viper.SetEnvPrefix("CITATION_SLEUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultConfig())
}

// setDefaults registers every config key so that env overrides reach
// Unmarshal even when no config file mentions the key.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("pubmed.base_url", d.PubMed.BaseURL)
	v.SetDefault("pubmed.timeout", d.PubMed.Timeout)
	v.SetDefault("pubmed.user_agent", d.PubMed.UserAgent)
	v.SetDefault("pubmed.max_results", d.PubMed.MaxResults)
	v.SetDefault("pubmed.rate_limit", d.PubMed.RateLimit)
	v.SetDefault("pubmed.burst", d.PubMed.Burst)
	v.SetDefault("pubmed.concurrency", d.PubMed.Concurrency)
	v.SetDefault("pubmed.skip_failed_details", d.PubMed.SkipFailedDetails)
	v.SetDefault("pubmed.tool", d.PubMed.Tool)
	v.SetDefault("pubmed.email", d.PubMed.Email)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
}

// loadConfig resolves cfg, the secrets store and the logger before any
// subcommand runs.
func loadConfig(cmd *cobra.Command, _ []string) error {
	readErr := viper.ReadInConfig()

	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return configErrorf("decoding config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Logging.Level = lvl
	}
	logger = observability.NewLogger(c.Logging)

	var notFound viper.ConfigFileNotFoundError
	switch {
	case readErr == nil:
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	case errors.As(readErr, &notFound):
	default:
		return configErrorf("reading config: %w", readErr)
	}

	dir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(dir, logger)
	if err != nil {
		return configErrorf("%w", err)
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	c.PubMed.Email = secretDefault(c.PubMed.Email, secrets.NCBIEmail)
	c.PubMed.Tool = secretDefault(c.PubMed.Tool, secrets.NCBITool)
	if c.PubMed.Tool == "" {
		c.PubMed.Tool = types.DefaultTool
	}

	if err := c.Validate(); err != nil {
		return configErrorf("%w", err)
	}
	cfg = c
	return nil
}

// secretDefault returns value when set, otherwise the secret stored under key.
func secretDefault(value, key string) string {
	if value != "" {
		return value
	}
	return loadedSecrets.Get(key, "")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
