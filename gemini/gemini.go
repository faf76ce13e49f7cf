// Package gemini implements the sentiment classifier and the text generator
// on top of Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/sentiscope"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// NewClient creates a Gemini API client for apiKey.
// Returns EINVALID if apiKey is empty.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, sentiscope.Errorf(sentiscope.EINVALID, "gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// generate sends a single-turn prompt and returns the response text.
func generate(ctx context.Context, client *genai.Client, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sentiscope.Errorf(sentiscope.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}
