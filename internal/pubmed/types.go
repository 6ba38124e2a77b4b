// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import "encoding/json"

// esearchResponse is the retmode=json body of esearch.fcgi. Only the
// identifier list is consumed; a missing esearchresult or idlist decodes to
// an empty list.
type esearchResponse struct {
	Result *esearchResult `json:"esearchresult"`
}

// esearchResult keeps count as raw JSON; it is only logged, so its JSON
// type never fails a search.
type esearchResult struct {
	Count  json.RawMessage `json:"count"`
	IDList []string        `json:"idlist"`
}

// Names of the esummary Item elements a citation record is built from.
const (
	ItemTitle       = "Title"
	ItemEPubDate    = "EPubDate"
	ItemDOI         = "DOI"
	ItemPmcRefCount = "PmcRefCount"
)

// summaryItems lists the extracted items in record field order.
var summaryItems = []string{ItemTitle, ItemEPubDate, ItemDOI, ItemPmcRefCount}
