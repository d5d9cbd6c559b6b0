package scorer

// TokenCounter measures text length in model tokens. It must match the
// target model's tokenization or the batch budget drifts.
type TokenCounter interface {
	CountTokens(text string) int
}

// Packer accumulates listing blocks into batches that fit a token budget.
// It is a single-pass greedy bin-packer: blocks are taken in input order,
// never split, and never rebalanced across batches.
type Packer struct {
	counter TokenCounter
	budget  int
}

// NewPacker derives the per-batch budget from the model's context size
// minus the system prompt and a fixed reservation for the response.
func NewPacker(counter TokenCounter, maxContextTokens, responseReserveTokens int) *Packer {
	budget := maxContextTokens - (counter.CountTokens(SystemPrompt) + responseReserveTokens)
	return &Packer{counter: counter, budget: budget}
}

// Budget returns the target token budget per batch.
func (p *Packer) Budget() int {
	return p.budget
}

// Pack splits blocks into batch strings, each strictly under the budget.
// The concatenation is re-tokenized before each append so token merges at
// block boundaries are accounted for. A single block that alone exceeds
// the budget still forms its own batch; the model call for it will fail
// and be isolated like any other batch failure.
func (p *Packer) Pack(blocks []string) []string {
	var batches []string
	current := ""

	for _, block := range blocks {
		if current != "" && p.counter.CountTokens(current+block) >= p.budget {
			batches = append(batches, current)
			current = block
			continue
		}
		current += block
	}
	if current != "" {
		batches = append(batches, current)
	}

	return batches
}
