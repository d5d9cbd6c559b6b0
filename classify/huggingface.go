package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultInferenceBase = "https://api-inference.huggingface.co/models"
	defaultModel         = "facebook/bart-large-mnli"
)

// ZeroShotClassifier calls the hosted zero-shot classification endpoint.
type ZeroShotClassifier struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// ZeroShotOption tweaks the classifier construction.
type ZeroShotOption func(*ZeroShotClassifier)

func WithBaseURL(url string) ZeroShotOption {
	return func(c *ZeroShotClassifier) { c.baseURL = url }
}

func WithModel(model string) ZeroShotOption {
	return func(c *ZeroShotClassifier) { c.model = model }
}

func WithHTTPClient(client *http.Client) ZeroShotOption {
	return func(c *ZeroShotClassifier) { c.client = client }
}

func NewZeroShotClassifier(token string, opts ...ZeroShotOption) *ZeroShotClassifier {
	c := &ZeroShotClassifier{
		baseURL: defaultInferenceBase,
		model:   defaultModel,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (c *ZeroShotClassifier) Classify(ctx context.Context, text string, candidateLabels []string) (Result, error) {
	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: candidateLabels},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("inference returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed zeroShotResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Result{}, fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Labels) == 0 || len(parsed.Scores) == 0 {
		return Result{}, fmt.Errorf("empty classification response")
	}

	// Labels come back sorted by score descending.
	return Result{TopLabel: parsed.Labels[0], Confidence: parsed.Scores[0]}, nil
}
