package extract

import (
	"golddigger/models"
	"golddigger/normalize"
)

// StructuredExtractor reads the declared weight/purity strings the
// marketplace exposes as item specifics. These are seller-entered but
// field-scoped, so they outrank anything recovered from free text.
type StructuredExtractor struct{}

func (e *StructuredExtractor) Name() string { return "structured" }

func (e *StructuredExtractor) Extract(l *models.Listing) Fields {
	var f Fields
	if l.DeclaredWeight != nil {
		f.WeightGrams = normalize.Weight(*l.DeclaredWeight)
	}
	if l.DeclaredPurity != nil {
		f.PurityKarat = normalize.Purity(*l.DeclaredPurity)
	}
	return f
}
