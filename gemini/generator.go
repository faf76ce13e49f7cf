package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sentiscope"
	"google.golang.org/genai"
)

// GeneratePrefix is the instruction sent ahead of the document excerpt.
const GeneratePrefix = "Generate a content for this page: \n"

// GenerateExcerptLen is how many characters of the document are sent.
const GenerateExcerptLen = 500

// Ensure Generator implements sentiscope.Generator at compile time.
var _ sentiscope.Generator = (*Generator)(nil)

// Generator writes new text in the style of a stored document.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate returns text generated from the beginning of text.
func (g *Generator) Generate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", sentiscope.Errorf(sentiscope.EINVALID, "text required")
	}

	temp := float32(0.7)
	out, err := generate(ctx, g.client, g.model, BuildGeneratePrompt(text), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BuildGeneratePrompt builds the prompt from the first GenerateExcerptLen
// characters of text.
func BuildGeneratePrompt(text string) string {
	r := []rune(text)
	if len(r) > GenerateExcerptLen {
		r = r[:GenerateExcerptLen]
	}
	return GeneratePrefix + string(r)
}
