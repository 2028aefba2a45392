package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// How many chat models are listed before the rest are only counted
const maxListed = 10

// Lister handles listing OpenAI models usable for translation
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL means the
// public OpenAI API.
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(cfg),
	}
}

// ChatModels returns the sorted ids of chat models, preferred ones first
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure translation.openai_key in .freqdeck.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var preferred, other []string
	for _, model := range models.Models {
		id := model.ID
		if !isChatModel(id) {
			continue
		}
		if strings.Contains(id, "gpt-4") || strings.Contains(id, "gpt-3.5") {
			preferred = append(preferred, id)
		} else {
			other = append(other, id)
		}
	}
	sort.Strings(preferred)
	sort.Strings(other)

	return append(preferred, other...), nil
}

// ListTranslationModels prints the chat models, marking current
func (l *Lister) ListTranslationModels(ctx context.Context, w io.Writer, current string) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat/Translation Models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}

	for i, model := range chatModels {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more models\n", len(chatModels)-maxListed)
			break
		}
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%s\n", marker, model)
	}

	return nil
}

// Audio, image and embedding variants share the gpt prefix
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "image", "embedding", "dall-e", "whisper"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.Contains(id, "gpt") || strings.Contains(id, "chat")
}
