package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiModels is tried in order. Keys differ in which models they can
// reach, so a "not found" on one model just moves on to the next.
var geminiModels = []string{
	"gemini-1.5-flash-001",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-pro-001",
	"gemini-pro-001",
	"gemini-1.5-flash",
}

type GeminiGenerator struct {
	client *genai.Client
	models []string
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, models: geminiModels}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, name := range g.models {
		model := g.client.GenerativeModel(name)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				continue
			}
			break
		}

		return responseText(resp)
	}

	return "", fmt.Errorf("all gemini models failed: %w", lastErr)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned no text parts")
	}

	return sb.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
