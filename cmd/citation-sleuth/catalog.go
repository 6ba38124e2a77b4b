// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-sleuth/internal/publish"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect documentation stored in the local SQLite catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <target>",
	Short: "Print the usage table stored for a target",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets with stored documentation",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd, catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, err := publish.OpenSQLiteCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	doc, err := cat.Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s (updated %s)\n\n", doc.Target, doc.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprint(out, doc.Body)
	return nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cat, err := publish.OpenSQLiteCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	targets, err := cat.Targets(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintln(out, "No documentation stored.")
		return nil
	}
	for _, t := range targets {
		fmt.Fprintln(out, t)
	}
	return nil
}
