// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// UsagesSection is the documentation section a usage table is stored under.
const UsagesSection = "usages"

// ErrNoDocs is returned by Lookup when the target has no stored section.
var ErrNoDocs = errors.New("no documentation stored for target")

// Doc is one stored documentation section.
type Doc struct {
	Target    string
	Section   string
	Body      string
	UpdatedAt time.Time
}

// SQLiteCatalog is a local catalog that keeps the latest usage table per
// object in a SQLite database. It implements Publisher.
type SQLiteCatalog struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteCatalog opens or creates the catalog database at path,
// creating parent directories and the schema as needed.
func OpenSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &SQLiteCatalog{db: db, now: time.Now}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

func (c *SQLiteCatalog) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS object_docs (
		target TEXT NOT NULL,
		section TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (target, section)
	)`)
	return err
}

// Publish stores table as the usages section of target, replacing any
// previous table.
func (c *SQLiteCatalog) Publish(ctx context.Context, target, table string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("publish target is empty")
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO object_docs (target, section, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(target, section) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		target, UsagesSection, table, c.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing documentation for %s: %w", target, err)
	}
	return nil
}

// Lookup returns the stored usages section of target, or ErrNoDocs.
func (c *SQLiteCatalog) Lookup(ctx context.Context, target string) (Doc, error) {
	d := Doc{Target: target, Section: UsagesSection}
	var updated string
	err := c.db.QueryRowContext(ctx,
		`SELECT body, updated_at FROM object_docs WHERE target = ? AND section = ?`,
		target, UsagesSection,
	).Scan(&d.Body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Doc{}, fmt.Errorf("%w: %s", ErrNoDocs, target)
	}
	if err != nil {
		return Doc{}, fmt.Errorf("reading documentation for %s: %w", target, err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Doc{}, fmt.Errorf("parsing updated_at for %s: %w", target, err)
	}
	return d, nil
}

// Targets lists every object with stored documentation, sorted by name.
func (c *SQLiteCatalog) Targets(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT target FROM object_docs ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("listing targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
