// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citation-sleuth.
// Implements: CitationRecord (the normalized result of one bibliographic
// lookup) and the configuration tree loaded by the CLI.
package types

import "strings"

// NotAvailable is the sentinel stored in a CitationRecord field when the
// source response did not carry a usable value.
const NotAvailable = "N/A"

// PubMedLinkBase is the fixed prefix of every canonical link.
const PubMedLinkBase = "https://pubmed.ncbi.nlm.nih.gov/"

// CitationRecord is one publication referencing the queried data source.
// Every field holds either a real value or NotAvailable; Link is always set.
type CitationRecord struct {
	// PMID is the PubMed identifier the record was looked up by.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the summary endpoint.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is the electronic publication date, kept as opaque text.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// DOI is the identifier of record.
	DOI string `json:"doi" yaml:"doi"`

	// PMCRefCount is the PubMed Central reference count, kept as opaque text.
	PMCRefCount string `json:"pmc_ref_count" yaml:"pmc_ref_count"`

	// Link is the canonical PubMed URL built from PMID.
	Link string `json:"pubmed_link" yaml:"pubmed_link"`
}

// NewCitationRecord builds a fully populated record. Blank field values are
// replaced with NotAvailable and the link is derived from pmid alone.
func NewCitationRecord(pmid, title, pubDate, doi, refCount string) CitationRecord {
	return CitationRecord{
		PMID:            pmid,
		Title:           orNotAvailable(title),
		PublicationDate: orNotAvailable(pubDate),
		DOI:             orNotAvailable(doi),
		PMCRefCount:     orNotAvailable(refCount),
		Link:            CanonicalLink(pmid),
	}
}

// CanonicalLink returns the PubMed article URL for pmid
// (e.g. "123" → "https://pubmed.ncbi.nlm.nih.gov/123/").
func CanonicalLink(pmid string) string {
	return PubMedLinkBase + pmid + "/"
}

// IsNotAvailable reports whether v is the sentinel.
func IsNotAvailable(v string) bool {
	return v == NotAvailable
}

func orNotAvailable(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotAvailable
	}
	return v
}
