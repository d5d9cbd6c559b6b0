// Package textblob builds the combined title+description text used by the
// text-based extractors. Marketplace descriptions frequently arrive as HTML
// fragments, so markup is stripped before analysis.
package textblob

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Build concatenates a listing title and description into one analysis blob.
// The description has HTML removed and whitespace collapsed.
func Build(title, description string) string {
	desc := StripHTML(description)
	if desc == "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(title) + " " + desc
}

// StripHTML removes markup from a description fragment, returning the
// visible text with whitespace collapsed. Plain text passes through
// unchanged apart from whitespace normalization.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return collapse(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
