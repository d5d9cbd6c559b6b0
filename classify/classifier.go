// Package classify decides whether a listing is an authentic solid gold
// item, combining a zero-shot text classifier with a deterministic lexical
// guardrail over the declared metal.
package classify

import "context"

// Result is the top-scoring label from a classification call.
type Result struct {
	TopLabel   string
	Confidence float64
}

// Classifier is the swappable text-classification capability. Implementations
// include the remote zero-shot model and a local keyword heuristic.
type Classifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string) (Result, error)
}
