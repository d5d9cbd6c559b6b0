package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents a scraped marketplace listing plus the enrichment
// fields derived by the pipeline. The scraped inputs are written once at
// ingestion; each enrichment field is owned by exactly one pipeline stage.
type Listing struct {
	ItemID      string          `json:"item_id" db:"item_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Currency    string          `json:"currency" db:"currency"`
	ItemURL     string          `json:"item_url" db:"item_url"`

	SellerUsername           string   `json:"seller_username" db:"seller_username"`
	SellerFeedbackScore      *int     `json:"seller_feedback_score" db:"seller_feedback_score"`
	FeedbackPercent          *float64 `json:"feedback_percent" db:"feedback_percent"`
	TopRatedBuyingExperience bool     `json:"top_rated_buying_experience" db:"top_rated_buying_experience"`
	ReturnsAccepted          bool     `json:"returns_accepted" db:"returns_accepted"`

	// Raw item-specifics strings as reported by the marketplace, e.g.
	// "5.2 g" or "14k". Nil when the seller filled in nothing.
	Metal          *string `json:"metal" db:"metal"`
	DeclaredWeight *string `json:"declared_weight" db:"declared_weight"`
	DeclaredPurity *string `json:"declared_purity" db:"declared_purity"`

	// Derived fields. IsGold is tri-state: nil until the classifier has run.
	IsGold              *bool               `json:"is_gold" db:"is_gold"`
	WeightGrams         *float64            `json:"weight_grams" db:"weight_grams"`
	PurityKarat         *int                `json:"purity_karat" db:"purity_karat"`
	MeltValue           decimal.NullDecimal `json:"melt_value" db:"melt_value"`
	Profit              decimal.NullDecimal `json:"profit" db:"profit"`
	ScamRiskScore       *int                `json:"scam_risk_score" db:"scam_risk_score"`
	ScamRiskExplanation *string             `json:"scam_risk_explanation" db:"scam_risk_explanation"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Purity bounds for karat values. Anything outside is treated as absent,
// never clamped.
const (
	MinPurityKarat = 1
	MaxPurityKarat = 24
)

// Risk score bounds produced by the scorer.
const (
	MinRiskScore = 0
	MaxRiskScore = 10
)
