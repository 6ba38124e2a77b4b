// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strconv"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// BibTeX renders records as @article entries keyed "pmid<ID>", in input
// order. Sentinel fields are left out.
func BibTeX(records []types.CitationRecord) string {
	bib := bibtex.NewBibTex()
	for _, r := range records {
		entry := bibtex.NewBibEntry("article", "pmid"+r.PMID)
		if v := present(r.Title); v != "" {
			entry.AddField("title", bibtex.NewBibConst(v))
		}
		if year, ok := leadingYear(r.PublicationDate); ok {
			entry.AddField("year", bibtex.NewBibConst(strconv.Itoa(year)))
		}
		if v := present(r.DOI); v != "" {
			entry.AddField("doi", bibtex.NewBibConst(v))
		}
		entry.AddField("url", bibtex.NewBibConst(r.Link))
		entry.AddField("pmid", bibtex.NewBibConst(r.PMID))
		if v := present(r.PMCRefCount); v != "" {
			entry.AddField("note", bibtex.NewBibConst("PMC reference count: "+v))
		}
		bib.AddEntry(entry)
	}
	return bib.PrettyString()
}
