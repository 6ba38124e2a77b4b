//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleQuery is the data source looked up by Usages when USAGES_QUERY is unset.
const sampleQuery = "Medical Expenditure Panel Survey"

// Usages builds the CLI and looks up a sample data source, saving a report
// and a metrics textfile. Set USAGES_QUERY to look up another source.
func Usages() error {
	mg.Deps(Build, Init)

	query := os.Getenv("USAGES_QUERY")
	if query == "" {
		query = sampleQuery
	}
	return sh.RunV(filepath.Join(binDir, binName), "usages",
		"--query", query,
		"--save", filepath.Join("reports", "usages.yaml"),
		"--metrics-file", filepath.Join("metrics", "usages.prom"),
	)
}

// Serve builds the CLI and runs the HTTP API until interrupted.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}
