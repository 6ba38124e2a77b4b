// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish delivers a rendered usage table to the documentation of
// a catalog object. The core never depends on a concrete catalog; callers
// inject a Publisher.
package publish

import (
	"context"
	"fmt"
	"io"
)

// Publisher writes a markdown table into the documentation of target
// (a catalog object such as a database or table name).
type Publisher interface {
	Publish(ctx context.Context, target, table string) error
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, target, table string) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, target, table string) error {
	return f(ctx, target, table)
}

// Console is the placeholder publisher: it only displays what would be
// written.
type Console struct {
	W io.Writer
}

// Publish prints the target and the table.
func (c Console) Publish(_ context.Context, target, table string) error {
	_, err := fmt.Fprintf(c.W, "Updating documentation for %s with the following markdown table:\n\n%s\n", target, table)
	return err
}
