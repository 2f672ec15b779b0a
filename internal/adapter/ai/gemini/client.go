// Package gemini implements domain.LLMClient against the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
)

const (
	temperature     = 0.7
	maxOutputTokens = 2048
)

// Client wraps the Google GenAI client for prompt-based generation.
type Client struct {
	client *genai.Client
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client}, nil
}

// Complete sends the prompt to Gemini and returns the concatenated text parts.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("%w: gemini client is not initialized", domain.ErrInvalidArgument)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt must not be empty", domain.ErrInvalidArgument)
	}

	temp := float32(temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, CanonicalModel(model), genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", domain.ErrModelCall, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", fmt.Errorf("%w: gemini returned empty response", domain.ErrModelCall)
	}
	return output, nil
}

// CanonicalModel maps user-facing model names onto the API's models/ paths.
func CanonicalModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return model
}
