package scorer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"golddigger/models"
)

// SystemPrompt carries the scoring instructions and the output-format
// contract. Its token length is constant per run and is subtracted from the
// model's context when computing the per-batch budget.
const SystemPrompt = `
You are an expert eBay gold listing analyzer. Your task is to assess the "scam risk score" for each provided listing.
The score should be an integer between 0 (very low risk) and 10 (very high risk).
Consider all provided attributes: item_id, title, price, seller_feedback_score, feedback_percent, top_rated_buying_experience, description, returns_accepted, melt_value, profit.
A high profit margin compared to melt value might be a red flag, unless justified by rarity or craftsmanship.
Low seller feedback, poor feedback percentage, or lack of top-rated status can increase risk.
Vague or copied descriptions, or descriptions that don't match the title/images (if you had images), are risky.
Extremely low prices for the supposed weight/purity are suspicious.
No returns accepted can be a risk factor.
Be cautious of listings where non gold items (such as Amethyst) are contributing to the weight and thus the profit

For each listing, provide your output as a JSON array, where each object contains:
- 'item_id'
- 'scam_risk_score'
- 'explanation': a brief justification (3-4 bullet points) for the assigned score.

Do not include any other text or explanations outside this JSON structure.
Example for two items:
[
  {"item_id": "123", "scam_risk_score": 2, "explanation": "High seller feedback. Price matches melt value."},
  {"item_id": "456", "scam_risk_score": 7, "explanation": "Low feedback. Price much lower than melt value."}
]

Here are the listings to analyze:
`

// maxDescriptionChars caps the description inside a listing block so a
// single verbose listing cannot eat the whole batch budget.
const maxDescriptionChars = 1000

// FormatListing renders one listing as the fixed-layout text block the
// prompt promises the model.
func FormatListing(l *models.Listing) string {
	description := l.Description
	if len(description) > maxDescriptionChars {
		description = description[:maxDescriptionChars] + "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Item ID: %s\n", l.ItemID)
	fmt.Fprintf(&b, "Title: %s\n", l.Title)
	fmt.Fprintf(&b, "Price: $%s\n", l.Price.StringFixed(2))
	fmt.Fprintf(&b, "Seller Feedback Score: %s\n", intOrUnknown(l.SellerFeedbackScore))
	fmt.Fprintf(&b, "Feedback Percent: %s%%\n", floatOrUnknown(l.FeedbackPercent))
	fmt.Fprintf(&b, "Top Rated Buying Experience: %s\n", yesNo(l.TopRatedBuyingExperience))
	fmt.Fprintf(&b, "Returns Accepted: %s\n", yesNo(l.ReturnsAccepted))
	fmt.Fprintf(&b, "Melt Value: $%s\n", nullDecimalFixed(l.MeltValue))
	fmt.Fprintf(&b, "Potential Profit: $%s\n", nullDecimalFixed(l.Profit))
	fmt.Fprintf(&b, "Description: %s\n", description)
	b.WriteString("---\n")
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *v)
}

func nullDecimalFixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return "unknown"
	}
	return d.Decimal.StringFixed(2)
}
