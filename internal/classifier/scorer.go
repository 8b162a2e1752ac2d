package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is one scorer verdict: a model label and its confidence in [0,1].
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Scorer scores a batch of texts, returning one result per input in order.
type Scorer interface {
	Score(ctx context.Context, texts []string) ([]Result, error)
}

// InferenceClient calls a hosted text-classification endpoint
// (HuggingFace-inference style: POST {"inputs": [...]} returning a list of
// label candidates per input). The highest-confidence candidate wins.
type InferenceClient struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewInferenceClient(url, token string) *InferenceClient {
	return &InferenceClient{
		url:   url,
		token: token,
		// Cold model starts upstream can take a while.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *InferenceClient) Score(ctx context.Context, texts []string) ([]Result, error) {
	payload, err := json.Marshal(map[string]any{"inputs": texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var candidates [][]Result
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	results := make([]Result, 0, len(candidates))
	for _, cs := range candidates {
		best := Result{}
		for _, r := range cs {
			if r.Score >= best.Score {
				best = r
			}
		}
		results = append(results, best)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("scoring endpoint returned %d results for %d inputs", len(results), len(texts))
	}
	return results, nil
}
