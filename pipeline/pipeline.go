// Package pipeline sequences the four enrichment stages over the listing
// store: classification, metadata extraction, valuation, and risk scoring.
// Each stage runs in its own transaction; per-listing and per-batch
// failures are isolated, store failures abort the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"golddigger/classify"
	"golddigger/extract"
	"golddigger/models"
	"golddigger/pricing"
	"golddigger/scorer"
	"golddigger/storage"
	"golddigger/valuation"
)

// ErrRunInProgress is returned when a run is requested while another is
// active. The core assumes at most one run per store; cross-process
// exclusion is the scheduler's job.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// RunRecorder persists operational run history.
type RunRecorder interface {
	StartRun(runID string) (int64, error)
	FinishRun(id int64, report *models.RunReport, errMsg string) error
}

type Pipeline struct {
	store      storage.Store
	recorder   RunRecorder
	classifier *classify.Adapter
	cascade    *extract.Cascade
	feed       pricing.Feed
	scorer     *scorer.Scorer

	running atomic.Bool
}

func New(store storage.Store, recorder RunRecorder, classifier *classify.Adapter, cascade *extract.Cascade, feed pricing.Feed, riskScorer *scorer.Scorer) *Pipeline {
	return &Pipeline{
		store:      store,
		recorder:   recorder,
		classifier: classifier,
		cascade:    cascade,
		feed:       feed,
		scorer:     riskScorer,
	}
}

// Run executes all four stages in order. Stage N+1 does not start until
// stage N has processed its whole eligible set and committed.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)

	report := &models.RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	log.Printf("Pipeline: run %s starting", report.RunID)

	var recordID int64
	if p.recorder != nil {
		id, err := p.recorder.StartRun(report.RunID)
		if err != nil {
			log.Printf("Pipeline: could not record run start: %v", err)
		} else {
			recordID = id
		}
	}

	runErr := p.runStages(ctx, report)

	report.FinishedAt = time.Now()
	if runErr != nil {
		report.Status = models.RunStatusFailed
	} else {
		report.Status = models.RunStatusCompleted
	}

	if p.recorder != nil && recordID != 0 {
		errMsg := ""
		if runErr != nil {
			errMsg = runErr.Error()
		}
		if err := p.recorder.FinishRun(recordID, report, errMsg); err != nil {
			log.Printf("Pipeline: could not record run finish: %v", err)
		}
	}

	for _, stage := range report.Stages {
		log.Printf("Pipeline: run %s stage %s: %d processed, %d skipped, %d failed",
			report.RunID, stage.Stage, stage.Processed, stage.Skipped, stage.Failed)
	}
	log.Printf("Pipeline: run %s %s in %s", report.RunID, report.Status, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	return report, runErr
}

func (p *Pipeline) runStages(ctx context.Context, report *models.RunReport) error {
	stages := []struct {
		name string
		run  func(ctx context.Context, tx storage.StageTx) (models.StageResult, error)
	}{
		{models.StageClassify, p.runClassify},
		{models.StageExtract, p.runExtract},
		{models.StageValuation, p.runValuation},
		{models.StageScoring, p.runScoring},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx, err := p.store.Begin(ctx)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}

		result, err := stage.run(ctx, tx)
		result.Stage = stage.name
		if err != nil {
			tx.Rollback(ctx)
			if errors.Is(err, pricing.ErrFeedUnavailable) {
				// Valuation cannot proceed without a trustworthy price;
				// later stages still run over previously valued listings.
				log.Printf("Pipeline: stage %s aborted: %v", stage.name, err)
				report.Stages = append(report.Stages, result)
				continue
			}
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
		report.Stages = append(report.Stages, result)
	}
	return nil
}

// runClassify decides is_gold for every unclassified listing. Classifier
// failures skip just that listing; it stays unclassified for a later run.
func (p *Pipeline) runClassify(ctx context.Context, tx storage.StageTx) (models.StageResult, error) {
	var result models.StageResult

	listings, err := tx.UnclassifiedListings(ctx)
	if err != nil {
		return result, err
	}
	log.Printf("Classify: %d unclassified listings", len(listings))

	for i := range listings {
		l := &listings[i]
		isGold, err := p.classifier.IsGold(ctx, l)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			log.Printf("Classify: %s failed, leaving unclassified: %v", l.ItemID, err)
			result.Failed++
			continue
		}
		if err := tx.SetGold(ctx, l.ItemID, isGold); err != nil {
			return result, err
		}
		result.Processed++
	}
	return result, nil
}

// runExtract resolves weight and purity for gold listings. A listing is
// written only when both fields resolve; partial results leave it eligible
// for re-extraction once upstream data improves.
func (p *Pipeline) runExtract(ctx context.Context, tx storage.StageTx) (models.StageResult, error) {
	var result models.StageResult

	listings, err := tx.GoldListingsMissingMetadata(ctx)
	if err != nil {
		return result, err
	}
	log.Printf("Extract: %d gold listings missing metadata", len(listings))

	for i := range listings {
		l := &listings[i]
		fields := p.cascade.Extract(l)
		if !fields.Complete() {
			result.Skipped++
			continue
		}
		if err := tx.SetMetadata(ctx, l.ItemID, *fields.WeightGrams, *fields.PurityKarat); err != nil {
			return result, err
		}
		result.Processed++
	}
	return result, nil
}

// runValuation recomputes melt value and profit for every gold listing
// with metadata, against one spot price fetched for the whole run. This is
// a deliberate per-run refresh, not a one-time derivation.
func (p *Pipeline) runValuation(ctx context.Context, tx storage.StageTx) (models.StageResult, error) {
	var result models.StageResult

	listings, err := tx.GoldListingsWithMetadata(ctx)
	if err != nil {
		return result, err
	}
	if len(listings) == 0 {
		return result, nil
	}

	spot, err := p.feed.SpotPricePerGram(ctx)
	if err != nil {
		result.Skipped = len(listings)
		return result, err
	}
	log.Printf("Valuation: spot price $%s/g, %d listings", spot.StringFixed(2), len(listings))

	for i := range listings {
		l := &listings[i]
		melt := valuation.MeltValue(*l.WeightGrams, *l.PurityKarat, spot)
		profit := valuation.Profit(melt, l.Price)
		if err := tx.SetValuation(ctx, l.ItemID, melt, profit); err != nil {
			return result, err
		}
		result.Processed++
	}
	return result, nil
}

// runScoring assigns scam risk scores in token-budgeted batches.
func (p *Pipeline) runScoring(ctx context.Context, tx storage.StageTx) (models.StageResult, error) {
	var result models.StageResult

	listings, err := tx.GoldListingsUnscored(ctx)
	if err != nil {
		return result, err
	}
	if len(listings) == 0 {
		return result, nil
	}

	eligible := make([]*models.Listing, len(listings))
	for i := range listings {
		eligible[i] = &listings[i]
	}

	stats, err := p.scorer.Score(ctx, eligible, func(ctx context.Context, score scorer.ItemScore) error {
		return tx.SetRiskScore(ctx, score.ItemID, score.ScamRiskScore, score.Explanation)
	})
	if err != nil {
		return result, err
	}

	result.Processed = stats.Scored
	result.Skipped = stats.Skipped
	result.Failed = stats.BatchesDiscarded
	return result, nil
}
