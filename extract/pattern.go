package extract

import (
	"regexp"

	"golddigger/models"
	"golddigger/normalize"
	"golddigger/textblob"
)

var (
	weightPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(oz|ounces?|grams?|g)\b`)
	purityPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(kt|karat|k)\b`)
)

// PatternExtractor runs the weight and purity regexes over the combined
// title+description blob. The two patterns are independent; the first match
// wins per field.
type PatternExtractor struct{}

func (e *PatternExtractor) Name() string { return "pattern" }

func (e *PatternExtractor) Extract(l *models.Listing) Fields {
	blob := textblob.Build(l.Title, l.Description)

	var f Fields
	if m := weightPattern.FindStringSubmatch(blob); m != nil {
		f.WeightGrams = normalize.Weight(m[1] + " " + m[2])
	}
	if m := purityPattern.FindStringSubmatch(blob); m != nil {
		f.PurityKarat = normalize.Purity(m[1])
	}
	return f
}
