package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const libreTranslateTimeout = 30 * time.Second

// LibreTranslatePacing matches the request rate public instances tolerate
var LibreTranslatePacing = Pacing{Delay: 100 * time.Millisecond, Every: 1}

// LibreTranslateClient talks to a LibreTranslate instance
type LibreTranslateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewLibreTranslateClient creates a client for the instance at baseURL
func NewLibreTranslateClient(baseURL, apiKey string, timeout time.Duration) *LibreTranslateClient {
	if timeout <= 0 {
		timeout = libreTranslateTimeout
	}
	return &LibreTranslateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate implements Translator
func (c *LibreTranslateClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	translated, err := c.translate(ctx, text, from, to)
	if err != nil {
		return "", failed("libretranslate", err)
	}
	return translated, nil
}

func (c *LibreTranslateClient) translate(ctx context.Context, text, from, to string) (string, error) {
	body, err := json.Marshal(libreTranslateRequest{
		Q:      text,
		Source: from,
		Target: to,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result libreTranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("status %d: failed to decode response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, result.Error)
	}

	translated := strings.TrimSpace(result.TranslatedText)
	if translated == "" {
		return "", errors.New("empty translation")
	}
	return translated, nil
}
