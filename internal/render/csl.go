// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID     string   `yaml:"id"`
	Type   string   `yaml:"type"`
	Title  string   `yaml:"title,omitempty"`
	Issued *CSLDate `yaml:"issued,omitempty"`
	DOI    string   `yaml:"DOI,omitempty"`
	PMID   string   `yaml:"PMID,omitempty"`
	URL    string   `yaml:"URL"`
	Note   string   `yaml:"note,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL writes records as a CSL-YAML list to w. Sentinel fields are omitted.
func CSL(w io.Writer, records []types.CitationRecord) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.CitationRecord) CSLItem {
	item := CSLItem{
		ID:    "pmid" + r.PMID,
		Type:  "article-journal",
		Title: present(r.Title),
		DOI:   present(r.DOI),
		PMID:  r.PMID,
		URL:   r.Link,
	}
	if year, ok := leadingYear(r.PublicationDate); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	if refs := present(r.PMCRefCount); refs != "" {
		item.Note = "PMC reference count: " + refs
	}
	return item
}

// present returns v, or "" when v is the sentinel.
func present(v string) string {
	if types.IsNotAvailable(v) {
		return ""
	}
	return v
}

// leadingYear extracts a four-digit year from the start of a PubMed date
// such as "2021 Jan 5" or "2019".
func leadingYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	if len(date) > 4 && date[4] >= '0' && date[4] <= '9' {
		return 0, false
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y < 1000 {
		return 0, false
	}
	return y, true
}
