// Package extract derives normalized weight and purity for gold listings
// from three sources tried in priority order: structured item specifics,
// regex patterns over the listing text, and an NLP fallback.
package extract

import (
	"log"

	"golddigger/models"
)

// Fields is a partial extraction result. Either field may be nil.
type Fields struct {
	WeightGrams *float64
	PurityKarat *int
}

// Complete reports whether both fields resolved. Listings are only updated
// when the result is complete; partial results leave the listing untouched
// and eligible for re-extraction on a later run.
func (f Fields) Complete() bool {
	return f.WeightGrams != nil && f.PurityKarat != nil
}

// Extractor produces a partial Fields result for a listing. Extractors must
// not mutate the listing.
type Extractor interface {
	Name() string
	Extract(l *models.Listing) Fields
}

// Cascade runs extractors in priority order and merges their results
// per field: the first non-nil value for each field wins. Later extractors
// only run while a field is still missing.
type Cascade struct {
	extractors []Extractor
}

// NewCascade builds the standard cascade: structured > pattern > fallback.
func NewCascade(recognizer EntityRecognizer) *Cascade {
	return &Cascade{
		extractors: []Extractor{
			&StructuredExtractor{},
			&PatternExtractor{},
			&FallbackExtractor{Recognizer: recognizer},
		},
	}
}

// Extract merges extractor results for one listing.
func (c *Cascade) Extract(l *models.Listing) Fields {
	var merged Fields
	for _, e := range c.extractors {
		if merged.Complete() {
			break
		}
		got := e.Extract(l)
		if merged.WeightGrams == nil && got.WeightGrams != nil {
			merged.WeightGrams = got.WeightGrams
			log.Printf("Extract: %s resolved weight %.3fg for %s", e.Name(), *got.WeightGrams, l.ItemID)
		}
		if merged.PurityKarat == nil && got.PurityKarat != nil {
			merged.PurityKarat = got.PurityKarat
			log.Printf("Extract: %s resolved purity %dk for %s", e.Name(), *got.PurityKarat, l.ItemID)
		}
	}
	return merged
}
