package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// InferenceEngine is the external vision-to-text collaborator: one image
// plus one prompt in, free-form text out. The engine is stateful across
// calls (it retains conversational context), so callers must go through a
// Session rather than invoking implementations directly.
type InferenceEngine interface {
	Infer(ctx context.Context, image []byte, prompt string) (string, error)
	Reset(ctx context.Context) error
}

// VisionClient talks to the vision inference service over HTTP.
type VisionClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewVisionClient creates a client for the inference API at the given URL.
func NewVisionClient(apiURL string) *VisionClient {
	log.Printf("Vision inference client initialized for %s", apiURL)
	return &VisionClient{
		apiURL:     apiURL,
		httpClient: http.DefaultClient,
	}
}

// Infer sends one image and prompt to the inference service and returns
// the raw text of its answer.
func (c *VisionClient) Infer(ctx context.Context, image []byte, prompt string) (string, error) {
	payload := map[string]any{
		"image":  base64.StdEncoding.EncodeToString(image),
		"prompt": prompt,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call inference API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode inference response: %w", err)
	}

	if strings.TrimSpace(result.Text) == "" {
		return "", fmt.Errorf("inference API returned no text")
	}

	log.Printf("Inference API returned %d characters", len(result.Text))
	return result.Text, nil
}

// Reset clears the engine's conversational context. Required between
// unrelated documents; stale context cross-contaminates extractions.
func (c *VisionClient) Reset(ctx context.Context) error {
	resetURL := strings.TrimSuffix(c.apiURL, "/") + "/reset"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resetURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build reset request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reset inference context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference reset returned status %d", resp.StatusCode)
	}
	return nil
}
