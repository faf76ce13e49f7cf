package gemini

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/sentiscope"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// DefaultConcurrency is the number of texts classified in parallel.
const DefaultConcurrency = 4

// DefaultMaxInputTokens caps the text sent for a single classification.
const DefaultMaxInputTokens = 8000

// Ensure Classifier implements sentiscope.SentimentClassifier at compile time.
var _ sentiscope.SentimentClassifier = (*Classifier)(nil)

// Classifier scores the sentiment of texts with Gemini. Each score is in
// [-1, 1], from most negative to most positive.
type Classifier struct {
	client      *genai.Client
	model       string
	concurrency int

	// Counter, when set, trims each text to MaxInputTokens before it is sent.
	Counter        Counter
	MaxInputTokens int
}

// NewClassifier creates a new Classifier.
func NewClassifier(client *genai.Client, model string) *Classifier {
	if model == "" {
		model = DefaultModel
	}
	return &Classifier{
		client:         client,
		model:          model,
		concurrency:    DefaultConcurrency,
		MaxInputTokens: DefaultMaxInputTokens,
	}
}

// SetConcurrency sets how many requests run at once. Values below 1 are ignored.
func (c *Classifier) SetConcurrency(n int) {
	if n >= 1 {
		c.concurrency = n
	}
}

// Classify returns one score per text, in input order. Blank texts score 0
// without a request. The first failing request cancels the rest.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		g.Go(func() error {
			score, err := c.classify(ctx, text)
			if err != nil {
				return fmt.Errorf("classify text %d: %w", i, err)
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *Classifier) classify(ctx context.Context, text string) (float64, error) {
	if c.Counter != nil && c.MaxInputTokens > 0 {
		trimmed, err := TrimToTokens(ctx, c.Counter, text, c.MaxInputTokens)
		if err != nil {
			return 0, err
		}
		text = trimmed
	}

	reply, err := generate(ctx, c.client, c.model, BuildClassifyPrompt(text), ClassifyConfig())
	if err != nil {
		return 0, err
	}
	return ParseScore(reply)
}

// ClassifyConfig returns the GenerateContentConfig for classification calls.
func ClassifyConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a sentiment classifier. Reply with a single decimal number between -1 and 1, where -1 is very negative, 0 is neutral and 1 is very positive. Do not reply with anything else.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildClassifyPrompt builds the user prompt for one text.
func BuildClassifyPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("<text>\n")
	sb.WriteString(text)
	sb.WriteString("\n</text>\n\n")
	sb.WriteString("Sentiment score:")
	return sb.String()
}

var numberRe = regexp.MustCompile(`[-+]?(\d+(\.\d*)?|\.\d+)`)

// ParseScore extracts the first number in reply and clamps it to [-1, 1].
// Returns EINTERNAL if reply holds no number.
func ParseScore(reply string) (float64, error) {
	m := numberRe.FindString(reply)
	if m == "" {
		return 0, sentiscope.Errorf(sentiscope.EINTERNAL, "no score in classifier reply %q", truncate(reply, 80))
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) {
		return 0, sentiscope.Errorf(sentiscope.EINTERNAL, "invalid score %q", m)
	}
	return math.Max(-1, math.Min(1, v)), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
