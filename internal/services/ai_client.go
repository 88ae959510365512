package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"finance-admin/internal/config"
	"finance-admin/internal/models"

	"google.golang.org/genai"
)

var (
	ErrEmptyAIResponse   = errors.New("empty response from model")
	ErrInvalidAIResponse = errors.New("model response does not match the expected shape")
)

// GeminiTextGenerator sends prompts to a Gemini model through the genai SDK.
// Each call is a single attempt.
type GeminiTextGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiTextGenerator creates a text generator for the Gemini developer API
func NewGeminiTextGenerator(ctx context.Context, cfg config.AIConfig) (TextGeneratorInterface, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiTextGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate returns the text of the first candidate
func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	temperature := g.temperature
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyAIResponse
	}
	return text, nil
}

// AIResponse is the JSON document the model is asked to return. Metrics and
// chart are kept raw so a malformed chart does not discard the narrative.
type AIResponse struct {
	Response    string          `json:"response"`
	Metrics     json.RawMessage `json:"metrics,omitempty"`
	Percentages json.RawMessage `json:"percentages,omitempty"`
	Chart       json.RawMessage `json:"chart,omitempty"`
}

// ParseAIResponse strips markdown code fences and decodes the model output
func ParseAIResponse(raw string) (*AIResponse, error) {
	clean := stripCodeFences(raw)
	if clean == "" {
		return nil, ErrEmptyAIResponse
	}

	var parsed AIResponse
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model response: %w", err)
	}

	if strings.TrimSpace(parsed.Response) == "" {
		return nil, ErrInvalidAIResponse
	}

	return &parsed, nil
}

// ChartSpec decodes the chart, returning nil when it is absent or malformed
func (r *AIResponse) ChartSpec() *models.ChartSpec {
	if r == nil || len(r.Chart) == 0 || string(r.Chart) == "null" {
		return nil
	}

	var chart models.ChartSpec
	if err := json.Unmarshal(r.Chart, &chart); err != nil {
		return nil
	}
	chart.Type = models.ChartType(strings.ToLower(string(chart.Type)))
	return &chart
}

// Insights decodes the metric map, returning nil when it is not a JSON object
func (r *AIResponse) Insights() map[string]interface{} {
	if r == nil || len(r.Metrics) == 0 {
		return nil
	}

	var insights map[string]interface{}
	if err := json.Unmarshal(r.Metrics, &insights); err != nil {
		return nil
	}
	return insights
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return strings.TrimSpace(strings.Trim(s, "`"))
		}
		s = strings.TrimSpace(s[idx+1:])
		if end := strings.LastIndex(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
