package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"golddigger/models"
)

// PostgresStore holds the listing table written by the scraper and
// enriched by the pipeline.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Begin opens a stage transaction.
func (s *PostgresStore) Begin(ctx context.Context) (StageTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin stage tx: %w", err)
	}
	return &pgStageTx{tx: tx}, nil
}

type pgStageTx struct {
	tx pgx.Tx
}

const listingColumns = `
	item_id, title, description, price, currency, item_url,
	seller_username, seller_feedback_score, feedback_percent,
	top_rated_buying_experience, returns_accepted,
	metal, declared_weight, declared_purity,
	is_gold, weight_grams, purity_karat, melt_value, profit,
	scam_risk_score, scam_risk_explanation,
	created_at, updated_at`

func (t *pgStageTx) UnclassifiedListings(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE is_gold IS NULL
		ORDER BY created_at`
	return t.selectListings(ctx, query)
}

func (t *pgStageTx) GoldListingsMissingMetadata(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE is_gold = TRUE AND (weight_grams IS NULL OR purity_karat IS NULL)
		ORDER BY created_at`
	return t.selectListings(ctx, query)
}

func (t *pgStageTx) GoldListingsWithMetadata(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE is_gold = TRUE AND weight_grams IS NOT NULL AND purity_karat IS NOT NULL
		ORDER BY created_at`
	return t.selectListings(ctx, query)
}

func (t *pgStageTx) GoldListingsUnscored(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE is_gold = TRUE AND melt_value IS NOT NULL AND profit IS NOT NULL
			AND scam_risk_score IS NULL
		ORDER BY created_at`
	return t.selectListings(ctx, query)
}

func (t *pgStageTx) selectListings(ctx context.Context, query string) ([]models.Listing, error) {
	rows, err := t.tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		err := rows.Scan(
			&l.ItemID, &l.Title, &l.Description, &l.Price, &l.Currency, &l.ItemURL,
			&l.SellerUsername, &l.SellerFeedbackScore, &l.FeedbackPercent,
			&l.TopRatedBuyingExperience, &l.ReturnsAccepted,
			&l.Metal, &l.DeclaredWeight, &l.DeclaredPurity,
			&l.IsGold, &l.WeightGrams, &l.PurityKarat, &l.MeltValue, &l.Profit,
			&l.ScamRiskScore, &l.ScamRiskExplanation,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (t *pgStageTx) SetGold(ctx context.Context, itemID string, isGold bool) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE listings SET is_gold = $2, updated_at = NOW() WHERE item_id = $1`,
		itemID, isGold)
	if err != nil {
		return fmt.Errorf("set is_gold for %s: %w", itemID, err)
	}
	return nil
}

func (t *pgStageTx) SetMetadata(ctx context.Context, itemID string, weightGrams float64, purityKarat int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE listings SET weight_grams = $2, purity_karat = $3, updated_at = NOW() WHERE item_id = $1`,
		itemID, weightGrams, purityKarat)
	if err != nil {
		return fmt.Errorf("set metadata for %s: %w", itemID, err)
	}
	return nil
}

func (t *pgStageTx) SetValuation(ctx context.Context, itemID string, meltValue, profit decimal.Decimal) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE listings SET melt_value = $2, profit = $3, updated_at = NOW() WHERE item_id = $1`,
		itemID, meltValue, profit)
	if err != nil {
		return fmt.Errorf("set valuation for %s: %w", itemID, err)
	}
	return nil
}

func (t *pgStageTx) SetRiskScore(ctx context.Context, itemID string, score int, explanation string) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE listings SET scam_risk_score = $2, scam_risk_explanation = $3, updated_at = NOW() WHERE item_id = $1`,
		itemID, score, explanation)
	if err != nil {
		return fmt.Errorf("set risk score for %s: %w", itemID, err)
	}
	return nil
}

func (t *pgStageTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stage: %w", err)
	}
	return nil
}

func (t *pgStageTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("rollback stage: %w", err)
	}
	return nil
}
