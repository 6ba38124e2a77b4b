// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory is one secret: the filename is the key and the
// trimmed contents are the value.
//
// Supported keys: ncbi-email, ncbi-tool.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Keys read by the CLI.
const (
	NCBIEmail = "ncbi-email"
	NCBITool  = "ncbi-tool"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// Store is a loaded set of secrets.
type Store map[string]string

// Get returns the secret for key, or fallback when it is not set.
func (s Store) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty Store. Unreadable files are logged at warn and skipped.
func Load(dir string, logger zerolog.Logger) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			store[name] = value
		}
	}

	return store, nil
}
