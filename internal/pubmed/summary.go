// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html/charset"
)

// extractItems scans an esummary XML document and returns the text of the
// first <Item Name="..."> element (in document order, at any depth) for
// each requested name. Names that never appear, or whose element is empty,
// are absent from the result. Scanning stops at the first syntax error and
// keeps whatever was found before it, so a truncated or malformed document
// degrades to missing fields instead of an error. Documents declaring a
// non-UTF-8 encoding are transcoded.
func extractItems(doc []byte, names ...string) map[string]string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	found := make(map[string]string, len(names))

	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel
	for len(found) < len(want) {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Item" {
			continue
		}
		name := attr(start, "Name")
		if !want[name] {
			continue
		}
		text, err := elementText(dec)
		if _, seen := found[name]; !seen {
			// An empty first match still counts as the match.
			found[name] = strings.TrimSpace(text)
		}
		if err != nil {
			break
		}
	}

	for k, v := range found {
		if v == "" {
			delete(found, k)
		}
	}
	return found
}

// elementText returns the concatenated character data of the element whose
// start token was just read, consuming tokens through its end token.
func elementText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
