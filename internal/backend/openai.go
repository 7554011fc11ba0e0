package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
	"github.com/sashabaranov/go-openai"
)

const maxPromptChars = 12000

// OpenAIBackend asks a chat model to rate the rubric criteria and composes the
// response with the same aggregation the local heuristic uses
type OpenAIBackend struct {
	client   *openai.Client
	model    string
	articles ArticleSource
}

// NewOpenAIBackend creates an OpenAI-backed scorer. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewOpenAIBackend(cfg model.BackendConfig, articles ArticleSource) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if articles == nil {
		return nil, fmt.Errorf("OpenAI backend needs an article source")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	name := cfg.Model
	if name == "" {
		name = openai.GPT4oMini
	}

	return &OpenAIBackend{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    name,
		articles: articles,
	}, nil
}

// Name returns the backend kind
func (b *OpenAIBackend) Name() string {
	return model.BackendOpenAI
}

// rating is the JSON object the model is asked to produce
type rating struct {
	Scores    map[string]float64 `json:"scores"`
	Rationale map[string]string  `json:"rationale"`
}

// Score fetches the article, has the model rate it, and aggregates the ratings
func (b *OpenAIBackend) Score(ctx context.Context, req model.ScoreRequest) (json.RawMessage, error) {
	a, err := b.articles.Fetch(ctx, req.URL)
	if err != nil {
		return nil, delegationError("fetch article", err)
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(a.Title, a.Text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, delegationError("OpenAI API", err)
	}
	if len(resp.Choices) == 0 {
		return nil, delegationError("OpenAI API", errors.New("no choices in response"))
	}

	metrics, err := parseRating(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, delegationError("parse rating", err)
	}

	out := score.Aggregate(metrics).Response(req.URL, a.Title)
	out.ModelVersion = "openai:" + b.model

	body, err := json.Marshal(out)
	if err != nil {
		return nil, delegationError("encode response", err)
	}
	return body, nil
}

const systemPrompt = `You rate news articles for credibility. You never judge whether events happened; you rate how the article is written and sourced. Answer with a single JSON object only.`

// BuildPrompt constructs the rating prompt for an article
func BuildPrompt(title, text string) string {
	if len(text) > maxPromptChars {
		text = strings.ToValidUTF8(text[:maxPromptChars], "")
	}

	var sb strings.Builder
	sb.WriteString("Rate the article below on each criterion from 0 (worst) to 100 (best).\n")
	sb.WriteString("Higher always means more credible: low emotional language, few extreme statements and little bias score HIGH.\n\n")
	sb.WriteString("Criteria:\n")
	for _, c := range model.Criteria() {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	sb.WriteString("\nRespond with JSON of the form {\"scores\": {\"<criterion>\": <number>}, \"rationale\": {\"<criterion>\": \"<one short sentence>\"}} using the exact criterion names.\n\n")
	if title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", title)
	}
	fmt.Fprintf(&sb, "Article:\n%s\n", text)
	return sb.String()
}

// parseRating turns the model's JSON into metrics in canonical criterion order
func parseRating(content string) (model.Metrics, error) {
	var r rating
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &r); err != nil {
		return nil, fmt.Errorf("decode rating: %w", err)
	}

	metrics := make(model.Metrics, 0, len(model.Criteria()))
	var missing []string
	for _, c := range model.Criteria() {
		v, ok := r.Scores[c]
		if !ok || math.IsNaN(v) {
			missing = append(missing, c)
			continue
		}
		metrics = append(metrics, model.MetricScore{
			Label:   c,
			Score:   math.Round(math.Max(0, math.Min(100, v))),
			Details: r.Rationale[c],
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("rating missing criteria: %s", strings.Join(missing, ", "))
	}
	return metrics, nil
}
