package classify

import (
	"context"
	"strings"
)

// Markers that indicate an item is not solid gold no matter how the title
// reads. Matched against the lowercased text.
var notGoldMarkers = []string{
	"gold-filled", "gold filled", "gold-plated", "gold plated",
	"gold tone", "gold-tone", "goldtone", "vermeil", "gilded",
	"hge", "gep", "rolled gold", "faux", "costume",
}

// KeywordClassifier is a local, deterministic stand-in for the remote
// zero-shot model. Useful for offline runs and tests; markedly less
// accurate on ambiguous titles.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (Result, error) {
	lower := strings.ToLower(text)

	for _, marker := range notGoldMarkers {
		if strings.Contains(lower, marker) {
			return Result{TopLabel: LabelNotGold, Confidence: 0.9}, nil
		}
	}

	if strings.Contains(lower, "gold") {
		return Result{TopLabel: LabelGold, Confidence: 0.6}, nil
	}
	return Result{TopLabel: LabelNotGold, Confidence: 0.6}, nil
}
