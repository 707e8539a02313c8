// Package blockdetect decides whether fetched HTML is a bot-blocking page
// rather than real content, by probing it with caller-supplied CSS selectors.
package blockdetect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Parse builds a queryable document from raw HTML.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Blocked reports whether any selector matches at least one element of doc.
// Selectors that fail to compile are skipped entirely, so a typo in one
// selector cannot mask the others or fail the check. An empty list never
// matches. The document is not modified.
func Blocked(doc *goquery.Document, selectors []string) bool {
	if doc == nil {
		return false
	}
	for _, raw := range selectors {
		sel, err := cascadia.Compile(raw)
		if err != nil {
			continue
		}
		if doc.FindMatcher(sel).Length() > 0 {
			return true
		}
	}
	return false
}
