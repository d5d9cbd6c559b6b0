package extract

import (
	"math"
	"testing"

	"golddigger/models"
)

func strPtr(s string) *string { return &s }

type fakeRecognizer struct {
	entities []Entity
	err      error
	calls    int
}

func (r *fakeRecognizer) Entities(text string) ([]Entity, error) {
	r.calls++
	return r.entities, r.err
}

func TestCascade_StructuredWins(t *testing.T) {
	c := NewCascade(&fakeRecognizer{})
	l := &models.Listing{
		ItemID:         "1",
		Title:          "gold ring 3g 10k",
		DeclaredWeight: strPtr("5.2 g"),
		DeclaredPurity: strPtr("14k"),
	}

	got := c.Extract(l)
	if !got.Complete() {
		t.Fatalf("expected complete extraction, got %+v", got)
	}
	if *got.WeightGrams != 5.2 {
		t.Fatalf("expected structured weight 5.2, got %v", *got.WeightGrams)
	}
	if *got.PurityKarat != 14 {
		t.Fatalf("expected structured purity 14, got %d", *got.PurityKarat)
	}
}

func TestCascade_MergeIsPerField(t *testing.T) {
	// Structured yields weight only; pattern yields both. Purity must come
	// from the pattern extractor while weight keeps the structured value.
	c := NewCascade(&fakeRecognizer{})
	l := &models.Listing{
		ItemID:         "2",
		Title:          "vintage 10k band 3 grams",
		DeclaredWeight: strPtr("5.2 g"),
	}

	got := c.Extract(l)
	if !got.Complete() {
		t.Fatalf("expected complete extraction, got %+v", got)
	}
	if *got.WeightGrams != 5.2 {
		t.Fatalf("expected weight from structured field (5.2), got %v", *got.WeightGrams)
	}
	if *got.PurityKarat != 10 {
		t.Fatalf("expected purity from pattern (10), got %d", *got.PurityKarat)
	}
}

func TestCascade_PatternOunces(t *testing.T) {
	c := NewCascade(&fakeRecognizer{})
	l := &models.Listing{
		ItemID: "3",
		Title:  "1 oz 24k gold bar",
	}

	got := c.Extract(l)
	if !got.Complete() {
		t.Fatalf("expected complete extraction, got %+v", got)
	}
	if math.Abs(*got.WeightGrams-28.3495) > 1e-9 {
		t.Fatalf("expected 28.3495 grams, got %v", *got.WeightGrams)
	}
	if *got.PurityKarat != 24 {
		t.Fatalf("expected purity 24, got %d", *got.PurityKarat)
	}
}

func TestCascade_FallbackOnlyWhenMissing(t *testing.T) {
	rec := &fakeRecognizer{entities: []Entity{
		{Text: "7 grams", Label: EntityQuantity},
		{Text: "18k", Label: EntityCardinal},
	}}
	c := NewCascade(rec)

	// Pattern resolves both fields; the recognizer must never be invoked.
	l := &models.Listing{ItemID: "4", Title: "14k gold chain 5g"}
	got := c.Extract(l)
	if !got.Complete() {
		t.Fatalf("expected complete extraction, got %+v", got)
	}
	if rec.calls != 0 {
		t.Fatalf("fallback invoked despite complete pattern match")
	}

	// Nothing in structured or pattern; fallback supplies both.
	l = &models.Listing{ItemID: "5", Title: "estate gold band"}
	got = c.Extract(l)
	if !got.Complete() {
		t.Fatalf("expected fallback extraction, got %+v", got)
	}
	if *got.WeightGrams != 7 {
		t.Fatalf("expected fallback weight 7, got %v", *got.WeightGrams)
	}
	if *got.PurityKarat != 18 {
		t.Fatalf("expected fallback purity 18, got %d", *got.PurityKarat)
	}
}

func TestCascade_PartialStaysPartial(t *testing.T) {
	c := NewCascade(&fakeRecognizer{})
	l := &models.Listing{ItemID: "6", Title: "gold ring 5g"} // no purity anywhere

	got := c.Extract(l)
	if got.Complete() {
		t.Fatalf("expected partial extraction, got %+v", got)
	}
	if got.WeightGrams == nil || *got.WeightGrams != 5 {
		t.Fatalf("expected weight 5, got %+v", got.WeightGrams)
	}
	if got.PurityKarat != nil {
		t.Fatalf("expected nil purity, got %d", *got.PurityKarat)
	}
}

func TestCascade_OutOfRangePurityRejected(t *testing.T) {
	c := NewCascade(&fakeRecognizer{})
	l := &models.Listing{
		ItemID:         "7",
		DeclaredWeight: strPtr("5 g"),
		DeclaredPurity: strPtr("30k"),
	}

	got := c.Extract(l)
	if got.PurityKarat != nil {
		t.Fatalf("30k must normalize to absent, got %d", *got.PurityKarat)
	}
}

func TestFallback_RecognizerErrorIsAbsent(t *testing.T) {
	e := &FallbackExtractor{Recognizer: &fakeRecognizer{err: errFake}}
	got := e.Extract(&models.Listing{ItemID: "8", Title: "gold band"})
	if got.WeightGrams != nil || got.PurityKarat != nil {
		t.Fatalf("expected empty fields on recognizer error, got %+v", got)
	}
}

var errFake = &recognizerError{}

type recognizerError struct{}

func (e *recognizerError) Error() string { return "recognizer down" }
