package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"golddigger/models"
)

// Store opens per-stage transactional views over the listing table. Each
// pipeline stage runs inside exactly one StageTx: all of its reads and
// writes commit together or roll back together.
type Store interface {
	Begin(ctx context.Context) (StageTx, error)
}

// StageTx is one stage's view of the listing store. The selects return
// listings in a stable ingestion order; the setters each write only the
// fields their owning stage derives.
type StageTx interface {
	// UnclassifiedListings selects listings the classifier has not decided yet.
	UnclassifiedListings(ctx context.Context) ([]models.Listing, error)
	// GoldListingsMissingMetadata selects gold listings still missing weight or purity.
	GoldListingsMissingMetadata(ctx context.Context) ([]models.Listing, error)
	// GoldListingsWithMetadata selects gold listings with both weight and purity,
	// including already-valued ones: valuation refreshes against the run's spot price.
	GoldListingsWithMetadata(ctx context.Context) ([]models.Listing, error)
	// GoldListingsUnscored selects valued gold listings without a risk score.
	GoldListingsUnscored(ctx context.Context) ([]models.Listing, error)

	SetGold(ctx context.Context, itemID string, isGold bool) error
	SetMetadata(ctx context.Context, itemID string, weightGrams float64, purityKarat int) error
	SetValuation(ctx context.Context, itemID string, meltValue, profit decimal.Decimal) error
	SetRiskScore(ctx context.Context, itemID string, score int, explanation string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
