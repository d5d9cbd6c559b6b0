package scorer

import (
	"strings"
	"testing"
)

// wordCounter counts whitespace-separated words, a cheap stand-in with the
// same shape as a real tokenizer.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func block(id string, words int) string {
	parts := make([]string, 0, words)
	parts = append(parts, "item", id)
	for i := 2; i < words; i++ {
		parts = append(parts, "w")
	}
	return strings.Join(parts, " ") + "\n"
}

func TestPack_RespectsBudget(t *testing.T) {
	counter := wordCounter{}
	systemTokens := counter.CountTokens(SystemPrompt)
	maxContext := systemTokens + 500 + 25 // budget of 25 tokens per batch

	p := NewPacker(counter, maxContext, 500)
	if p.Budget() != 25 {
		t.Fatalf("expected budget 25, got %d", p.Budget())
	}

	blocks := []string{
		block("a", 10), block("b", 10), block("c", 10),
		block("d", 10), block("e", 10),
	}
	batches := p.Pack(blocks)

	for i, batch := range batches {
		if got := counter.CountTokens(batch); got >= p.Budget() {
			t.Fatalf("batch %d has %d tokens, budget is %d", i, got, p.Budget())
		}
	}
	// 10+10=20 fits, adding a third makes 30 which does not.
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
}

func TestPack_NeverSplitsBlocks(t *testing.T) {
	counter := wordCounter{}
	p := NewPacker(counter, counter.CountTokens(SystemPrompt)+500+30, 500)

	blocks := []string{block("a", 12), block("b", 12), block("c", 12)}
	batches := p.Pack(blocks)

	joined := strings.Join(batches, "")
	for _, b := range blocks {
		if !strings.Contains(joined, b) {
			t.Fatalf("block %q was split or dropped", b)
		}
		count := 0
		for _, batch := range batches {
			count += strings.Count(batch, b)
		}
		if count != 1 {
			t.Fatalf("block %q appears %d times across batches", b, count)
		}
	}
}

func TestPack_PreservesOrder(t *testing.T) {
	counter := wordCounter{}
	p := NewPacker(counter, counter.CountTokens(SystemPrompt)+500+12, 500)

	blocks := []string{block("a", 5), block("b", 5), block("c", 5), block("d", 5)}
	batches := p.Pack(blocks)

	joined := strings.Join(batches, "")
	last := -1
	for _, id := range []string{"a", "b", "c", "d"} {
		idx := strings.Index(joined, "item "+id)
		if idx <= last {
			t.Fatalf("blocks reordered: %q found at %d after %d", id, idx, last)
		}
		last = idx
	}
}

func TestPack_SingleOversizedBlock(t *testing.T) {
	counter := wordCounter{}
	p := NewPacker(counter, counter.CountTokens(SystemPrompt)+500+10, 500)

	batches := p.Pack([]string{block("huge", 50)})
	if len(batches) != 1 {
		t.Fatalf("oversized block should form one batch, got %d", len(batches))
	}
}

func TestPack_Empty(t *testing.T) {
	p := NewPacker(wordCounter{}, 4096, 500)
	if got := p.Pack(nil); got != nil {
		t.Fatalf("expected no batches for no blocks, got %d", len(got))
	}
}
