package extract

import (
	"log"
	"strings"

	"golddigger/models"
	"golddigger/normalize"
	"golddigger/textblob"
)

// Entity labels produced by an EntityRecognizer.
const (
	EntityQuantity = "QUANTITY" // numeric value with a trailing unit word
	EntityCardinal = "CARDINAL" // bare numeric value
)

// Entity is a numeric span recognized in listing text.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer finds numeric entities in free text. Implementations are
// injected so the cascade is testable without a real NLP pipeline.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// FallbackExtractor is the last resort once structured data and regex both
// came up short. Quantity entities containing a weight unit become weight
// candidates; cardinal entities containing a karat unit become purity
// candidates.
type FallbackExtractor struct {
	Recognizer EntityRecognizer
}

func (e *FallbackExtractor) Name() string { return "fallback" }

func (e *FallbackExtractor) Extract(l *models.Listing) Fields {
	var f Fields
	if e.Recognizer == nil {
		return f
	}

	blob := textblob.Build(l.Title, l.Description)
	entities, err := e.Recognizer.Entities(blob)
	if err != nil {
		log.Printf("Extract: entity recognizer failed for %s: %v", l.ItemID, err)
		return f
	}

	for _, ent := range entities {
		text := strings.ToLower(ent.Text)
		switch ent.Label {
		case EntityQuantity:
			if f.WeightGrams == nil && containsWeightUnit(text) {
				f.WeightGrams = normalize.Weight(text)
			}
		case EntityCardinal:
			if f.PurityKarat == nil && containsKaratUnit(text) {
				f.PurityKarat = normalize.Purity(text)
			}
		}
		if f.Complete() {
			break
		}
	}
	return f
}

func containsWeightUnit(s string) bool {
	for _, unit := range []string{"oz", "ounce", "gram", " g", "g "} {
		if strings.Contains(s, unit) {
			return true
		}
	}
	return strings.HasSuffix(s, "g")
}

func containsKaratUnit(s string) bool {
	return strings.Contains(s, "karat") || strings.Contains(s, "kt") || strings.HasSuffix(strings.TrimSpace(s), "k")
}
