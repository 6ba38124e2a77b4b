// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns citation records into text: the markdown usage
// table placed in catalog documentation, plus JSON, CSL-YAML and BibTeX
// exports of the same records.
package render

import (
	"strings"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

const (
	markdownHeader    = "| Title | Publication Date | DOI | PMC Reference Count | PubMed Link |\n"
	markdownSeparator = "|-------|-----------------|-----|---------------------|-------------|\n"
)

// Markdown renders records as a five-column markdown table, one row per
// record in input order. No records yields only the header and separator
// lines.
func Markdown(records []types.CitationRecord) string {
	var b strings.Builder
	b.WriteString(markdownHeader)
	b.WriteString(markdownSeparator)
	for _, r := range records {
		b.WriteString("| ")
		b.WriteString(cell(r.Title))
		b.WriteString(" | ")
		b.WriteString(cell(r.PublicationDate))
		b.WriteString(" | ")
		b.WriteString(cell(r.DOI))
		b.WriteString(" | ")
		b.WriteString(cell(r.PMCRefCount))
		b.WriteString(" | [Link](")
		b.WriteString(r.Link)
		b.WriteString(") |\n")
	}
	return b.String()
}

// cell keeps a value on one table row: pipes are escaped and line breaks
// collapse to a single space.
func cell(s string) string {
	if !strings.ContainsAny(s, "|\r\n") {
		return s
	}
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
