// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-sleuth/internal/publish"
	"github.com/pdiddy/citation-sleuth/internal/pubmed"
	"github.com/pdiddy/citation-sleuth/internal/report"
	"github.com/pdiddy/citation-sleuth/internal/secrets"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitError, exitCode(errors.New("boom")))
	assert.Equal(t, ExitConfigError, exitCode(configErrorf("bad: %w", pubmed.ErrEmptyQuery)))
	assert.Equal(t, ExitConfigError, exitCode(fmt.Errorf("wrapped: %w", configErrorf("bad"))))
	assert.ErrorIs(t, configErrorf("%w", pubmed.ErrEmptyQuery), pubmed.ErrEmptyQuery)
}

func TestQueryFromArgs(t *testing.T) {
	tests := []struct {
		name string
		flag string
		args []string
		want string
	}{
		{"positional words are joined", "", []string{"Medical", "Expenditure", "Panel", "Survey"}, "Medical Expenditure Panel Survey"},
		{"flag wins", "MEPS", []string{"ignored"}, "MEPS"},
		{"blank flag falls back to args", "   ", []string{"NHANES"}, "NHANES"},
		{"nothing given", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().String("query", "", "")
			require.NoError(t, cmd.Flags().Set("query", tt.flag))
			assert.Equal(t, tt.want, queryFromArgs(cmd, tt.args))
		})
	}
}

func TestOpenPublisher(t *testing.T) {
	var buf bytes.Buffer
	p, closeFn, err := openPublisher(sinkConsole, "", &buf)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "main.health.meps", "| t |\n"))
	require.NoError(t, closeFn())
	assert.Contains(t, buf.String(), "Updating documentation for main.health.meps")

	path := filepath.Join(t.TempDir(), "catalog", "docs.db")
	p, closeFn, err = openPublisher(sinkSQLite, path, &buf)
	require.NoError(t, err)
	assert.IsType(t, &publish.SQLiteCatalog{}, p)
	require.NoError(t, closeFn())

	_, _, err = openPublisher("s3", "", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())

	var got types.Config
	require.NoError(t, v.Unmarshal(&got))
	assert.Equal(t, types.DefaultConfig(), got)
}

func fakeEutils(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			fmt.Fprint(w, `{"esearchresult":{"count":"2","idlist":["123","456"]}}`)
		case strings.HasSuffix(r.URL.Path, "/esummary.fcgi") && r.URL.Query().Get("id") == "123":
			fmt.Fprint(w, `<eSummaryResult><DocSum><Id>123</Id>`+
				`<Item Name="EPubDate" Type="Date">2021</Item>`+
				`<Item Name="Title" Type="String">Study X</Item>`+
				`<Item Name="PmcRefCount" Type="Integer">5</Item>`+
				`<Item Name="DOI" Type="String">10.1/xyz</Item>`+
				`</DocSum></eSummaryResult>`)
		case strings.HasSuffix(r.URL.Path, "/esummary.fcgi"):
			fmt.Fprint(w, `<eSummaryResult><DocSum><Id>456</Id></DocSum></eSummaryResult>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// testEnv points the CLI at ts and a fresh catalog under a temp dir, which
// it returns.
func testEnv(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	dir := t.TempDir()
	if ts != nil {
		t.Setenv("CITATION_SLEUTH_PUBMED_BASE_URL", ts.URL)
	}
	t.Setenv("CITATION_SLEUTH_PUBMED_RATE_LIMIT", "1000")
	t.Setenv("CITATION_SLEUTH_LOGGING_LEVEL", "error")
	t.Setenv("CITATION_SLEUTH_CATALOG_PATH", filepath.Join(dir, "docs.db"))
	return dir
}

// secretsDir is the secrets directory inside a testEnv dir. It does not
// exist unless a test creates it.
func secretsDir(dir string) string {
	return filepath.Join(dir, ".secrets")
}

// execute runs the root command with args and returns what it wrote to
// stdout. Flag values are reset afterwards so runs do not leak into each other.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

const (
	tableHeader = "| Title | Publication Date | DOI | PMC Reference Count | PubMed Link |\n" +
		"|-------|-----------------|-----|---------------------|-------------|\n"
	wantTable = tableHeader +
		"| Study X | 2021 | 10.1/xyz | 5 | [Link](https://pubmed.ncbi.nlm.nih.gov/123/) |\n" +
		"| N/A | N/A | N/A | N/A | [Link](https://pubmed.ncbi.nlm.nih.gov/456/) |\n"
)

func TestUsagesCommand_EndToEnd(t *testing.T) {
	dir := testEnv(t, fakeEutils(t))
	reportPath := filepath.Join(dir, "reports", "meps.yaml")

	out, err := execute(t,
		"usages", "--secrets-dir", secretsDir(dir),
		"--publish", "main.health.meps", "--sink", "sqlite",
		"--save", reportPath,
		"Medical", "Expenditure", "Panel", "Survey",
	)
	require.NoError(t, err)
	assert.Equal(t, wantTable, out)

	r, err := report.Read(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "Medical Expenditure Panel Survey", r.Query)
	assert.Equal(t, 2, r.Summary.Total)

	cat, err := publish.OpenSQLiteCatalog(filepath.Join(dir, "docs.db"))
	require.NoError(t, err)
	defer cat.Close()
	doc, err := cat.Lookup(context.Background(), "main.health.meps")
	require.NoError(t, err)
	assert.Equal(t, wantTable, doc.Body)
}

func TestUsagesCommand_ConsolePublishPrintsTableOnce(t *testing.T) {
	dir := testEnv(t, fakeEutils(t))

	out, err := execute(t, "usages", "--secrets-dir", secretsDir(dir), "--publish", "main.health.meps", "MEPS")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, tableHeader))
	assert.Equal(t,
		"Updating documentation for main.health.meps with the following markdown table:\n\n"+wantTable+"\n",
		out)
}

func TestUsagesCommand_ConsolePublishOtherFormat(t *testing.T) {
	dir := testEnv(t, fakeEutils(t))

	out, err := execute(t, "usages", "--secrets-dir", secretsDir(dir), "--publish", "x", "--format", "json", "MEPS")
	require.NoError(t, err)
	assert.Contains(t, out, "Updating documentation for x")
	assert.Contains(t, out, `"pubmed_link": "https://pubmed.ncbi.nlm.nih.gov/123/"`)
}

func TestPublishCommand_ReplaysReportIntoCatalog(t *testing.T) {
	dir := testEnv(t, nil)
	records := []types.CitationRecord{
		types.NewCitationRecord("123", "Study X", "2021", "10.1/xyz", "5"),
		types.NewCitationRecord("456", "", "", "", ""),
	}
	reportPath := filepath.Join(dir, "meps.yaml")
	require.NoError(t, report.Write(reportPath, report.New("MEPS", 20, records, "run-1")))

	_, err := execute(t, "publish", "main.health.meps",
		"--report", reportPath, "--sink", "sqlite", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)

	out, err := execute(t, "catalog", "show", "main.health.meps", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# main.health.meps (updated "), out)
	assert.True(t, strings.HasSuffix(out, "\n\n"+wantTable), out)

	out, err = execute(t, "catalog", "list", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "main.health.meps\n", out)
}

func TestPublishCommand_ConsoleSink(t *testing.T) {
	dir := testEnv(t, nil)
	reportPath := filepath.Join(dir, "meps.yaml")
	require.NoError(t, report.Write(reportPath, report.New("MEPS", 20, nil, "run-1")))

	out, err := execute(t, "publish", "main.health.meps", "--report", reportPath, "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t,
		"Updating documentation for main.health.meps with the following markdown table:\n\n"+tableHeader+"\n",
		out)
}

func TestPublishCommand_MissingReport(t *testing.T) {
	dir := testEnv(t, nil)
	_, err := execute(t, "publish", "x", "--report", filepath.Join(dir, "missing.yaml"), "--secrets-dir", secretsDir(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading report")
	assert.Equal(t, ExitError, exitCode(err))
}

func TestCatalogShow_UnknownTarget(t *testing.T) {
	dir := testEnv(t, nil)

	_, err := execute(t, "catalog", "show", "main.nowhere", "--secrets-dir", secretsDir(dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, publish.ErrNoDocs)
	assert.Equal(t, ExitError, exitCode(err))
}

func TestCatalogList_Empty(t *testing.T) {
	dir := testEnv(t, nil)

	out, err := execute(t, "catalog", "list", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "No documentation stored.\n", out)
}

func TestLoadConfig_ToolAndEmailFromSecrets(t *testing.T) {
	dir := testEnv(t, nil)
	require.NoError(t, os.MkdirAll(secretsDir(dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir(dir), secrets.NCBITool), []byte("my-tool\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir(dir), secrets.NCBIEmail), []byte("a@b.org"), 0o644))

	_, err := execute(t, "version", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "my-tool", cfg.PubMed.Tool)
	assert.Equal(t, "a@b.org", cfg.PubMed.Email)
}

func TestLoadConfig_DefaultTool(t *testing.T) {
	dir := testEnv(t, nil)

	out, err := execute(t, "version", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "citation-sleuth dev\n", out)
	assert.Equal(t, types.DefaultTool, cfg.PubMed.Tool)
	assert.Empty(t, cfg.PubMed.Email)
}

func TestLoadConfig_ToolFromEnvBeatsSecret(t *testing.T) {
	dir := testEnv(t, nil)
	t.Setenv("CITATION_SLEUTH_PUBMED_TOOL", "env-tool")
	require.NoError(t, os.MkdirAll(secretsDir(dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir(dir), secrets.NCBITool), []byte("my-tool"), 0o644))

	_, err := execute(t, "version", "--secrets-dir", secretsDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "env-tool", cfg.PubMed.Tool)
}
