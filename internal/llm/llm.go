// Package llm talks to OpenAI-compatible chat and speech-to-text endpoints.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/hwhelper/internal/apperr"
)

const systemPrompt = "You are a professional English teacher."

// Client wraps an OpenAI-compatible API client for answer generation.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string, temperature float32) (*Client, error) {
	if modelName == "" {
		return nil, errors.New("model name is required")
	}
	return &Client{
		api:         openai.NewClientWithConfig(clientConfig(baseURL, apiKey)),
		model:       modelName,
		temperature: temperature,
	}, nil
}

func clientConfig(baseURL, apiKey string) openai.ClientConfig {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return config
}

// Model returns the model name the client sends requests to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt and returns the raw completion text. Nothing is retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", providerError("LLM API call", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: LLM returned no choices", apperr.ErrProvider)
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "model", c.model, "tokens", resp.Usage.TotalTokens, "raw", raw)
	return raw, nil
}

// Models lists the model ids the provider offers.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	return listModels(ctx, c.api)
}

// ListModels lists the model ids offered at baseURL without choosing a model first.
func ListModels(ctx context.Context, baseURL, apiKey string) ([]string, error) {
	return listModels(ctx, openai.NewClientWithConfig(clientConfig(baseURL, apiKey)))
}

func listModels(ctx context.Context, api *openai.Client) ([]string, error) {
	list, err := api.ListModels(ctx)
	if err != nil {
		return nil, providerError("list models", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Ping checks that the endpoint is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Models(ctx)
	return err
}

// Transcriber turns audio files into text through a whisper-style endpoint.
type Transcriber struct {
	api      *openai.Client
	model    string
	language string
}

// NewTranscriber creates a speech-to-text client. An empty model means whisper-1.
func NewTranscriber(baseURL, apiKey, modelName, language string) *Transcriber {
	if modelName == "" {
		modelName = openai.Whisper1
	}
	return &Transcriber{
		api:      openai.NewClientWithConfig(clientConfig(baseURL, apiKey)),
		model:    modelName,
		language: language,
	}
}

// Transcribe uploads the audio file and returns its transcript.
// An empty transcript is an error.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Language: t.language,
	})
	if err != nil {
		return "", providerError("transcription API call", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: transcription returned no text", apperr.ErrProvider)
	}
	slog.Debug("transcription done", "model", t.model, "chars", len(text))
	return text, nil
}

// providerError tags err as a provider failure, keeping the provider's own message.
func providerError(what string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s (status %d)", apperr.ErrProvider, what, apiErr.Message, apiErr.HTTPStatusCode)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperr.ErrProvider, what, err)
}
