// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// Format selects an output rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSL      Format = "csl"
	FormatBibTeX   Format = "bibtex"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatCSL, FormatBibTeX}

// ParseFormat resolves a format name; an empty name means markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "md":
		return FormatMarkdown, nil
	case FormatMarkdown, FormatJSON, FormatCSL, FormatBibTeX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
	}
}

// ContentType returns the HTTP media type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSL:
		return "application/yaml"
	case FormatBibTeX:
		return "application/x-bibtex; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Write renders records in format f to w.
func Write(w io.Writer, f Format, records []types.CitationRecord) error {
	switch f {
	case FormatJSON:
		return JSON(w, records)
	case FormatCSL:
		return CSL(w, records)
	case FormatBibTeX:
		_, err := io.WriteString(w, BibTeX(records))
		return err
	default:
		_, err := io.WriteString(w, Markdown(records))
		return err
	}
}

// JSON writes records as indented JSON to w. A nil slice is written as [].
func JSON(w io.Writer, records []types.CitationRecord) error {
	if records == nil {
		records = []types.CitationRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
