// Package mirror replicates scraped rows to an external Supabase project over
// its REST API. The mirror is best-effort on the server side (merge-duplicates
// upsert) but a transport failure is fatal to the calling operation, matching
// the rest of the pipeline's no-retry policy.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFromEnv returns nil when SUPABASE_URL is unset, which disables mirroring.
func NewFromEnv() *Client {
	url := os.Getenv("SUPABASE_URL")
	if url == "" {
		return nil
	}
	return New(url, os.Getenv("SUPABASE_KEY"))
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upsert writes a batch of rows to the given table, merging on primary key.
func (c *Client) Upsert(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal mirror payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mirror request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Mirror upsert to %s rejected (%d): %s", table, resp.StatusCode, string(body))
	}
	return nil
}
