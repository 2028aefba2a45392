package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = openai.GPT4oMini
	openAITimeout      = 30 * time.Second
)

// OpenAIClient translates single words with a chat completion
type OpenAIClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
}

// NewOpenAIClient creates a client. baseURL is only set for compatible
// endpoints and tests.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = openAITimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  openai.NewClientWithConfig(cfg),
	}
}

// Translate implements Translator
func (c *OpenAIClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	if c.apiKey == "" {
		return "", failed("openai", errors.New("OpenAI API key not found"))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: wordPrompt(text, from, to),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", failed("openai", fmt.Errorf("OpenAI API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", failed("openai", errors.New("no translation returned"))
	}

	translated := cleanAnswer(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", failed("openai", errors.New("empty translation"))
	}
	return translated, nil
}

func wordPrompt(text, from, to string) string {
	return fmt.Sprintf("Translate the %s word '%s' to %s. Respond with only the %s translation, nothing else.",
		languageName(from), text, languageName(to), languageName(to))
}

// cleanAnswer strips whitespace, quotes and a trailing period models like
// to add
func cleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
