package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golddigger/models"
)

// ErrBatchParse marks a malformed batch response. The whole batch is
// discarded; no partial updates are salvaged from it.
var ErrBatchParse = errors.New("malformed batch response")

// ItemScore is one scored listing from the model's JSON array.
type ItemScore struct {
	ItemID        string `json:"item_id"`
	ScamRiskScore int    `json:"scam_risk_score"`
	Explanation   string `json:"explanation"`
}

// Valid reports whether the score lies in the documented range. Out-of-range
// scores are skipped per item, not treated as a batch failure.
func (s ItemScore) Valid() bool {
	return s.ScamRiskScore >= models.MinRiskScore && s.ScamRiskScore <= models.MaxRiskScore
}

var (
	openingFence  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	closingFence  = regexp.MustCompile("```$")
	trailingComma = regexp.MustCompile(`,\s*\]`)
)

// ParseResponse cleans and parses a model response expected to contain a
// JSON array of item scores. Markdown code fences and trailing commas
// before the closing bracket are tolerated; anything else malformed fails
// the whole batch.
func ParseResponse(response string) ([]ItemScore, error) {
	cleaned := CleanResponse(response)

	var scores []ItemScore
	if err := json.Unmarshal([]byte(cleaned), &scores); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBatchParse, err)
	}
	return scores, nil
}

// CleanResponse strips markdown code-fence wrappers and trailing commas
// before closing brackets.
func CleanResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		response = openingFence.ReplaceAllString(response, "")
		response = closingFence.ReplaceAllString(response, "")
	}
	return trailingComma.ReplaceAllString(response, "]")
}
