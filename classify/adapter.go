package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golddigger/models"
)

// Candidate labels for the zero-shot classifier.
const (
	LabelGold    = "authentic solid gold item"
	LabelNotGold = "non-gold or fake or gold-plated item"
)

// Metals that do not block a gold classification. Sellers leave the field
// empty or vague for real gold often enough that only an explicit non-gold
// metal ("gold-filled", "brass") is treated as blocking.
var permissiveMetals = map[string]bool{
	"gold":    true,
	"alloy":   true,
	"unknown": true,
	"null":    true,
}

// Adapter wraps a Classifier with the lexical metal rule and bounded
// retries. The classifier alone is fooled by plausible-sounding non-gold
// titles; the lexical check is the cheap guardrail.
type Adapter struct {
	classifier Classifier
	retries    int
	retryDelay time.Duration
}

func NewAdapter(classifier Classifier, retries int, retryDelay time.Duration) *Adapter {
	if retries < 1 {
		retries = 1
	}
	return &Adapter{classifier: classifier, retries: retries, retryDelay: retryDelay}
}

// IsGold classifies one listing. The result is true only when the
// classifier's top label is the gold label and the declared metal is
// permissive. Classifier failures are returned for the caller to isolate;
// the listing stays unclassified for a later run.
func (a *Adapter) IsGold(ctx context.Context, l *models.Listing) (bool, error) {
	metal := ""
	if l.Metal != nil {
		metal = *l.Metal
	}

	text := l.Title + ", Metal: " + metal + ", " + l.Description

	result, err := a.classifyWithRetry(ctx, text)
	if err != nil {
		return false, fmt.Errorf("classify %s: %w", l.ItemID, err)
	}

	return result.TopLabel == LabelGold && metalPermissive(l.Metal), nil
}

func (a *Adapter) classifyWithRetry(ctx context.Context, text string) (Result, error) {
	var lastErr error
	for attempt := 0; attempt < a.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(a.retryDelay):
			}
		}
		result, err := a.classifier.Classify(ctx, text, []string{LabelGold, LabelNotGold})
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return Result{}, lastErr
}

// metalPermissive applies the lexical allow-list: an absent metal is
// permissive, a listed metal must match the allow-list exactly
// (case-insensitive). "Gold-filled" and friends block regardless of what
// the classifier says.
func metalPermissive(metal *string) bool {
	if metal == nil {
		return true
	}
	return permissiveMetals[strings.ToLower(*metal)]
}
