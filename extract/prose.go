package extract

import (
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// ProseRecognizer tags listing text with the prose NLP pipeline and turns
// cardinal-number tokens into entities. A cardinal followed by (or fused
// with) a unit word is promoted to a quantity.
type ProseRecognizer struct{}

func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, err
	}

	tokens := doc.Tokens()
	var entities []Entity

	for i, tok := range tokens {
		if tok.Tag != "CD" && !isFusedNumeric(tok.Text) {
			continue
		}

		// Fused forms like "5g" or "14k" carry their unit in the token.
		if unit := trailingAlpha(tok.Text); unit != "" {
			entities = append(entities, classifyNumeric(tok.Text))
			continue
		}

		if i+1 < len(tokens) && isUnitWord(tokens[i+1].Text) {
			entities = append(entities, classifyNumeric(tok.Text+" "+tokens[i+1].Text))
			continue
		}

		entities = append(entities, Entity{Text: tok.Text, Label: EntityCardinal})
	}

	return entities, nil
}

func classifyNumeric(span string) Entity {
	lower := strings.ToLower(span)
	if containsWeightUnit(lower) && !containsKaratUnit(lower) {
		return Entity{Text: span, Label: EntityQuantity}
	}
	return Entity{Text: span, Label: EntityCardinal}
}

func isUnitWord(s string) bool {
	switch strings.ToLower(s) {
	case "oz", "ounce", "ounces", "g", "gram", "grams", "k", "kt", "karat", "karats":
		return true
	}
	return false
}

// isFusedNumeric reports whether a token is digits immediately followed by
// letters, e.g. "5g" or "14k". The tagger does not always mark these CD.
func isFusedNumeric(s string) bool {
	if len(s) < 2 || s[0] < '0' || s[0] > '9' {
		return false
	}
	return trailingAlpha(s) != ""
}

func trailingAlpha(s string) string {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	if i == len(s) || i == 0 {
		return ""
	}
	return s[i:]
}
