// Package pricing obtains the current gold spot price, normalized to USD
// per gram of pure 24-karat metal.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// GramsPerTroyOunce converts the spot quote, which markets publish per troy
// ounce. Item weights use the avoirdupois ounce (normalize.GramsPerOunce);
// the two constants must never be shared.
const GramsPerTroyOunce = 31.1034768

const defaultEndpoint = "https://forex-data-feed.swissquote.com/public-quotes/bboquotes/instrument/XAU/USD"

// ErrFeedUnavailable is returned once retries are exhausted. A run must not
// compute valuations from a stale or assumed price, so the caller aborts
// the valuation stage on this error.
var ErrFeedUnavailable = errors.New("spot price feed unavailable")

// Feed supplies the spot price for one pipeline run.
type Feed interface {
	SpotPricePerGram(ctx context.Context) (decimal.Decimal, error)
}

// SwissquoteFeed reads the public XAU/USD quote endpoint and averages the
// prime spread profile's bid and ask.
type SwissquoteFeed struct {
	endpoint   string
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

type SwissquoteOption func(*SwissquoteFeed)

func WithEndpoint(url string) SwissquoteOption {
	return func(f *SwissquoteFeed) { f.endpoint = url }
}

func WithClient(client *http.Client) SwissquoteOption {
	return func(f *SwissquoteFeed) { f.client = client }
}

func NewSwissquoteFeed(retries int, retryDelay time.Duration, opts ...SwissquoteOption) *SwissquoteFeed {
	if retries < 1 {
		retries = 1
	}
	f := &SwissquoteFeed{
		endpoint:   defaultEndpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
		retries:    retries,
		retryDelay: retryDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type quoteInstrument struct {
	SpreadProfilePrices []spreadProfile `json:"spreadProfilePrices"`
}

type spreadProfile struct {
	SpreadProfile string  `json:"spreadProfile"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
}

func (f *SwissquoteFeed) SpotPricePerGram(ctx context.Context) (decimal.Decimal, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		if attempt > 0 {
			log.Printf("Pricing: retrying spot price fetch (attempt %d/%d)", attempt+1, f.retries)
			select {
			case <-ctx.Done():
				return decimal.Zero, ctx.Err()
			case <-time.After(f.retryDelay):
			}
		}
		price, err := f.fetch(ctx)
		if err == nil {
			return price, nil
		}
		lastErr = err
	}
	return decimal.Zero, fmt.Errorf("%w: %v", ErrFeedUnavailable, lastErr)
}

func (f *SwissquoteFeed) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote endpoint returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read quote: %w", err)
	}

	var instruments []quoteInstrument
	if err := json.Unmarshal(data, &instruments); err != nil {
		return decimal.Zero, fmt.Errorf("parse quote: %w", err)
	}
	if len(instruments) == 0 {
		return decimal.Zero, fmt.Errorf("empty quote response")
	}

	for _, profile := range instruments[0].SpreadProfilePrices {
		if profile.SpreadProfile != "prime" {
			continue
		}
		perTroyOunce := decimal.NewFromFloat(profile.Bid).
			Add(decimal.NewFromFloat(profile.Ask)).
			Div(decimal.NewFromInt(2))
		return perTroyOunce.Div(decimal.NewFromFloat(GramsPerTroyOunce)).Round(2), nil
	}
	return decimal.Zero, fmt.Errorf("no prime spread profile in quote")
}

// FixedFeed returns a configured spot price. Used for reproducible runs
// when a price override is set, and in tests.
type FixedFeed struct {
	Price decimal.Decimal
}

func (f *FixedFeed) SpotPricePerGram(ctx context.Context) (decimal.Decimal, error) {
	return f.Price, nil
}
