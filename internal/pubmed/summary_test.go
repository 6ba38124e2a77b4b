// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractItems(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want map[string]string
	}{
		{
			name: "all fields present",
			doc:  esummaryXML("123", "Study X", "2021", "10.1/xyz", "5"),
			want: map[string]string{
				ItemTitle: "Study X", ItemEPubDate: "2021", ItemDOI: "10.1/xyz", ItemPmcRefCount: "5",
			},
		},
		{
			name: "missing and empty items are absent",
			doc: `<eSummaryResult><DocSum><Id>1</Id>
				<Item Name="Title" Type="String">Only Title</Item>
				<Item Name="EPubDate" Type="Date"></Item>
			</DocSum></eSummaryResult>`,
			want: map[string]string{ItemTitle: "Only Title"},
		},
		{
			name: "first match in document order wins",
			doc: `<eSummaryResult><DocSum>
				<Item Name="ArticleIds" Type="List">
					<Item Name="DOI" Type="String">10.9/nested</Item>
				</Item>
				<Item Name="DOI" Type="String">10.9/top</Item>
			</DocSum></eSummaryResult>`,
			want: map[string]string{ItemDOI: "10.9/nested"},
		},
		{
			name: "attribute names are case sensitive",
			doc: `<eSummaryResult><DocSum>
				<Item Name="doi" Type="String">10.1/lower</Item>
				<Item Name="title" Type="String">lower title</Item>
			</DocSum></eSummaryResult>`,
			want: map[string]string{},
		},
		{
			name: "entities decoded and whitespace trimmed",
			doc:  `<eSummaryResult><DocSum><Item Name="Title" Type="String">  A &amp; B  </Item></DocSum></eSummaryResult>`,
			want: map[string]string{ItemTitle: "A & B"},
		},
		{
			name: "truncated document keeps fields read before the break",
			doc:  `<eSummaryResult><DocSum><Item Name="Title" Type="String">Kept</Item><Item Name="DOI" Type="Str`,
			want: map[string]string{ItemTitle: "Kept"},
		},
		{
			name: "not xml at all",
			doc:  `{"error": "this is json"}`,
			want: map[string]string{},
		},
		{
			name: "empty body",
			doc:  ``,
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractItems([]byte(tt.doc), summaryItems...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractItems_DeclaredEncoding(t *testing.T) {
	// "Étude" with É as the single Latin-1 byte 0xC9.
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<eSummaryResult><DocSum><Id>9</Id>" +
		"<Item Name=\"Title\" Type=\"String\">\xc9tude</Item>" +
		"<Item Name=\"DOI\" Type=\"String\">10.9/latin</Item>" +
		"</DocSum></eSummaryResult>"

	got := extractItems([]byte(doc), summaryItems...)
	assert.Equal(t, map[string]string{
		ItemTitle: "Étude",
		ItemDOI:   "10.9/latin",
	}, got)
}
