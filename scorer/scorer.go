// Package scorer assigns each valued gold listing a scam risk score via a
// token-budgeted batch protocol against an LLM completion service.
package scorer

import (
	"context"
	"log"

	"golddigger/llm"
	"golddigger/models"
)

// ApplyFunc persists one item's score. It is supplied by the orchestrator
// so updates land inside the stage's transaction.
type ApplyFunc func(ctx context.Context, score ItemScore) error

// Stats counts the outcome of one scoring pass.
type Stats struct {
	Batches          int
	BatchesDiscarded int
	Scored           int
	Skipped          int // in a batch but absent or invalid in the response
}

// Scorer packs eligible listings into prompt batches, invokes the
// completion service once per batch, and applies the parsed updates.
type Scorer struct {
	completer llm.Completer
	packer    *Packer
}

func New(completer llm.Completer, packer *Packer) *Scorer {
	return &Scorer{completer: completer, packer: packer}
}

// Score processes listings in the order given. A parse failure or a failed
// completion call discards that batch only; remaining batches still run.
func (s *Scorer) Score(ctx context.Context, listings []*models.Listing, apply ApplyFunc) (Stats, error) {
	blocks := make([]string, 0, len(listings))
	batchMembers := make(map[string]int, len(listings))
	for _, l := range listings {
		blocks = append(blocks, FormatListing(l))
		batchMembers[l.ItemID] = 0
	}

	batches := s.packer.Pack(blocks)
	stats := Stats{Batches: len(batches)}
	log.Printf("Score: %d listings packed into %d batches (budget %d tokens)", len(listings), len(batches), s.packer.Budget())

	scored := make(map[string]bool, len(listings))

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		response, err := s.completer.Complete(ctx, SystemPrompt+batch)
		if err != nil {
			log.Printf("Score: batch %d/%d completion failed, discarding: %v", i+1, len(batches), err)
			stats.BatchesDiscarded++
			continue
		}

		scores, err := ParseResponse(response)
		if err != nil {
			log.Printf("Score: batch %d/%d parse failed, discarding: %v", i+1, len(batches), err)
			stats.BatchesDiscarded++
			continue
		}

		for _, item := range scores {
			if _, eligible := batchMembers[item.ItemID]; !eligible {
				log.Printf("Score: response contains unknown item %s, ignoring", item.ItemID)
				continue
			}
			if !item.Valid() {
				log.Printf("Score: item %s score %d out of range, skipping", item.ItemID, item.ScamRiskScore)
				continue
			}
			if err := apply(ctx, item); err != nil {
				return stats, err
			}
			scored[item.ItemID] = true
			stats.Scored++
		}
	}

	// Items the model never answered for stay unscored and eligible for a
	// later run.
	stats.Skipped = len(listings) - stats.Scored
	return stats, nil
}
