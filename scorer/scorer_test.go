package scorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"golddigger/models"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func nullDec(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func testListing(id string) *models.Listing {
	return &models.Listing{
		ItemID:              id,
		Title:               "14k gold ring 5g",
		Description:         "solid gold estate ring",
		Price:               decimal.NewFromInt(50),
		SellerFeedbackScore: intPtr(250),
		FeedbackPercent:     floatPtr(99.2),
		ReturnsAccepted:     true,
		MeltValue:           nullDec("189.58"),
		Profit:              nullDec("139.58"),
	}
}

type fakeCompleter struct {
	responses []string // one per call; error when exhausted
	errOn     map[int]error
	calls     int
	prompts   []string
}

func (c *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	call := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if err, ok := c.errOn[call]; ok {
		return "", err
	}
	if call < len(c.responses) {
		return c.responses[call], nil
	}
	return "", errors.New("no response configured")
}

func TestFormatListing(t *testing.T) {
	got := FormatListing(testListing("v1|123|0"))

	for _, want := range []string{
		"Item ID: v1|123|0\n",
		"Title: 14k gold ring 5g\n",
		"Price: $50.00\n",
		"Seller Feedback Score: 250\n",
		"Feedback Percent: 99.2%\n",
		"Top Rated Buying Experience: No\n",
		"Returns Accepted: Yes\n",
		"Melt Value: $189.58\n",
		"Potential Profit: $139.58\n",
		"Description: solid gold estate ring\n",
		"---\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("block missing %q:\n%s", want, got)
		}
	}
}

func TestFormatListing_TruncatesDescription(t *testing.T) {
	l := testListing("1")
	l.Description = strings.Repeat("x", 2500)

	got := FormatListing(l)
	if !strings.Contains(got, strings.Repeat("x", maxDescriptionChars)+"...") {
		t.Fatalf("expected truncated description with ellipsis")
	}
	if strings.Contains(got, strings.Repeat("x", maxDescriptionChars+1)) {
		t.Fatalf("description not capped at %d chars", maxDescriptionChars)
	}
}

func TestScore_AppliesUpdates(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"item_id": "a", "scam_risk_score": 2, "explanation": "fine"},
		  {"item_id": "b", "scam_risk_score": 8, "explanation": "risky"}]`,
	}}
	s := New(completer, NewPacker(wordCounter{}, 100000, 500))

	applied := map[string]ItemScore{}
	stats, err := s.Score(context.Background(), []*models.Listing{testListing("a"), testListing("b")},
		func(ctx context.Context, score ItemScore) error {
			applied[score.ItemID] = score
			return nil
		})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if stats.Batches != 1 || stats.Scored != 2 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if applied["a"].ScamRiskScore != 2 || applied["b"].ScamRiskScore != 8 {
		t.Fatalf("unexpected applied scores %+v", applied)
	}
	if !strings.HasPrefix(completer.prompts[0], SystemPrompt) {
		t.Fatalf("prompt missing system prompt prefix")
	}
}

func TestScore_MissingItemsStayUnscored(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"item_id": "a", "scam_risk_score": 3, "explanation": "ok"}]`,
	}}
	s := New(completer, NewPacker(wordCounter{}, 100000, 500))

	var applied []string
	stats, err := s.Score(context.Background(), []*models.Listing{testListing("a"), testListing("b")},
		func(ctx context.Context, score ItemScore) error {
			applied = append(applied, score.ItemID)
			return nil
		})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if stats.Scored != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(applied) != 1 || applied[0] != "a" {
		t.Fatalf("unexpected applied %v", applied)
	}
}

func TestScore_ParseFailureDiscardsBatchOnly(t *testing.T) {
	// Tight budget forces two batches; the first response is garbage.
	counter := wordCounter{}
	budgetContext := counter.CountTokens(SystemPrompt) + 500 + 60
	completer := &fakeCompleter{responses: []string{
		"I am sorry, I cannot produce JSON today.",
		`[{"item_id": "b", "scam_risk_score": 5, "explanation": "ok"}]`,
	}}
	s := New(completer, NewPacker(counter, budgetContext, 500))

	a, b := testListing("a"), testListing("b")
	var applied []string
	stats, err := s.Score(context.Background(), []*models.Listing{a, b},
		func(ctx context.Context, score ItemScore) error {
			applied = append(applied, score.ItemID)
			return nil
		})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if stats.Batches != 2 {
		t.Fatalf("expected 2 batches, got %d", stats.Batches)
	}
	if stats.BatchesDiscarded != 1 {
		t.Fatalf("expected 1 discarded batch, got %d", stats.BatchesDiscarded)
	}
	if len(applied) != 1 || applied[0] != "b" {
		t.Fatalf("expected only b applied, got %v", applied)
	}
}

func TestScore_UnknownAndInvalidItemsIgnored(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"item_id": "ghost", "scam_risk_score": 5, "explanation": "?"},
		  {"item_id": "a", "scam_risk_score": 11, "explanation": "out of range"},
		  {"item_id": "a", "scam_risk_score": 6, "explanation": "ok"}]`,
	}}
	s := New(completer, NewPacker(wordCounter{}, 100000, 500))

	var applied []ItemScore
	stats, err := s.Score(context.Background(), []*models.Listing{testListing("a")},
		func(ctx context.Context, score ItemScore) error {
			applied = append(applied, score)
			return nil
		})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if stats.Scored != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(applied) != 1 || applied[0].ScamRiskScore != 6 {
		t.Fatalf("unexpected applied %+v", applied)
	}
}

func TestScore_ApplyErrorAborts(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		`[{"item_id": "a", "scam_risk_score": 1, "explanation": "ok"}]`,
	}}
	s := New(completer, NewPacker(wordCounter{}, 100000, 500))

	storeErr := errors.New("commit failed")
	_, err := s.Score(context.Background(), []*models.Listing{testListing("a")},
		func(ctx context.Context, score ItemScore) error { return storeErr })
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}
