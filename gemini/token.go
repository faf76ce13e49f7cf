package gemini

import (
	"context"

	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// Counter counts the tokens a model would see for text.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

var _ Counter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the local Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{
		genai.NewContentFromText(text, "user"),
	}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// maxTrimRounds bounds the number of counting rounds in TrimToTokens.
const maxTrimRounds = 4

// TrimToTokens shortens text until c counts at most limit tokens in it. Each
// round cuts the text in proportion to how far it is over budget.
func TrimToTokens(ctx context.Context, c Counter, text string, limit int) (string, error) {
	for round := 0; round < maxTrimRounds; round++ {
		n, err := c.CountTokens(ctx, text)
		if err != nil {
			return "", err
		}
		if n <= limit {
			return text, nil
		}
		r := []rune(text)
		if len(r) == 0 {
			return "", nil
		}
		keep := len(r) * limit / n
		if keep >= len(r) {
			keep = len(r) - 1
		}
		text = string(r[:keep])
	}

	n, err := c.CountTokens(ctx, text)
	if err != nil {
		return "", err
	}
	if n > limit {
		// Give up on proportional cuts and keep one rune per token.
		r := []rune(text)
		text = string(r[:min(len(r), limit)])
	}
	return text, nil
}
