package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	myMemoryURL     = "https://api.mymemory.translated.net"
	myMemoryTimeout = 30 * time.Second
)

// MyMemoryPacing keeps the free tier from throttling long runs
var MyMemoryPacing = Pacing{Delay: 50 * time.Millisecond, Every: 10}

// MyMemoryClient talks to the MyMemory translation memory API. An e-mail
// address raises the anonymous daily quota.
type MyMemoryClient struct {
	baseURL    string
	email      string
	httpClient *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// MyMemory sends the status as a number or as a string
	ResponseStatus  any    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}

// NewMyMemoryClient creates a client. An empty baseURL uses the public API.
func NewMyMemoryClient(baseURL, email string, timeout time.Duration) *MyMemoryClient {
	if baseURL == "" {
		baseURL = myMemoryURL
	}
	if timeout <= 0 {
		timeout = myMemoryTimeout
	}
	return &MyMemoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      email,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate implements Translator
func (c *MyMemoryClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	translated, err := c.translate(ctx, text, from, to)
	if err != nil {
		return "", failed("mymemory", err)
	}
	return translated, nil
}

func (c *MyMemoryClient) translate(ctx context.Context, text, from, to string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", from+"|"+to)
	if c.email != "" {
		params.Set("de", c.email)
	}

	reqURL := c.baseURL + "/get?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if status := fmt.Sprint(result.ResponseStatus); status != "200" {
		return "", fmt.Errorf("status %s: %s", status, result.ResponseDetails)
	}

	translated := strings.TrimSpace(result.ResponseData.TranslatedText)
	if translated == "" {
		return "", errors.New("empty translation")
	}
	if strings.HasPrefix(translated, "MYMEMORY WARNING") {
		return "", errors.New(translated)
	}
	return translated, nil
}
