package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/edakseva/grievance-server/internal/model"
)

// OllamaProvider implements Provider against a local Ollama server.
type OllamaProvider struct {
	client *resty.Client
	model  string
}

// NewOllamaProvider creates a provider for the given base URL and model name.
func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)

	return &OllamaProvider{client: c, model: modelName}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// classifyOutput mirrors the JSON schema the classify prompt demands.
type classifyOutput struct {
	Category        string  `json:"category"`
	Sentiment       string  `json:"sentiment"`
	Priority        string  `json:"priority"`
	Response        string  `json:"response"`
	RequiresReview  bool    `json:"requiresReview"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

func (p *OllamaProvider) generate(ctx context.Context, op string, req generateRequest) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/api/generate")
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &Error{Op: op, Err: fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())}
	}
	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return gr.Response, nil
}

// Classify implements Provider.
func (p *OllamaProvider) Classify(ctx context.Context, text string) (*Result, error) {
	raw, err := p.generate(ctx, "classify", generateRequest{
		Model:  p.model,
		Prompt: text,
		System: classifySystemPrompt,
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return nil, err
	}

	var out classifyOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, &Error{Op: "classify", Err: fmt.Errorf("unparseable engine output: %w", err)}
	}
	res, err := normalize(out)
	if err != nil {
		return nil, &Error{Op: "classify", Err: err}
	}
	return res, nil
}

// normalize validates engine output against the closed vocabularies.
func normalize(out classifyOutput) (*Result, error) {
	cat := model.Category(canon(out.Category))
	switch cat {
	case model.CategoryDelay, model.CategoryLost, model.CategoryDamage, model.CategoryInvalid, model.CategoryOthers:
	default:
		return nil, fmt.Errorf("unknown category %q", out.Category)
	}

	sent := model.Sentiment(canon(out.Sentiment))
	switch sent {
	case model.SentimentAngry, model.SentimentUnhappy, model.SentimentNeutral, model.SentimentPositive:
	default:
		return nil, fmt.Errorf("unknown sentiment %q", out.Sentiment)
	}

	prio := model.Priority(canon(out.Priority))
	switch prio {
	case model.PriorityUrgent, model.PriorityNormal, model.PriorityLow:
	default:
		return nil, fmt.Errorf("unknown priority %q", out.Priority)
	}

	score := out.ConfidenceScore
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return &Result{
		Classification: model.Classification{
			Category:        cat,
			Sentiment:       sent,
			Priority:        prio,
			RequiresReview:  out.RequiresReview,
			ConfidenceScore: score,
		},
		Summary: out.Response,
	}, nil
}

// canon title-cases a vocabulary word so "delay" and "DELAY" both match.
func canon(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// DraftResponse implements Provider.
func (p *OllamaProvider) DraftResponse(ctx context.Context, req DraftRequest) (string, error) {
	if req.Category == model.CategoryInvalid {
		return invalidDraft, nil
	}
	draft, err := p.generate(ctx, "draft", generateRequest{
		Model:  p.model,
		Prompt: draftPrompt(req),
		Stream: false,
	})
	if err != nil {
		return "", err
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", &Error{Op: "draft", Err: fmt.Errorf("engine returned empty draft")}
	}
	return draft, nil
}

// Chat implements Provider.
func (p *OllamaProvider) Chat(ctx context.Context, message string, history []model.ChatTurn) (string, error) {
	msgs := make([]chatMessage, 0, len(history)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: chatSystemPrompt})
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: turn.Text})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: message})

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&chatRequest{Model: p.model, Messages: msgs, Stream: false}).
		Post("/api/chat")
	if err != nil {
		return "", &Error{Op: "chat", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &Error{Op: "chat", Err: fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())}
	}
	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", &Error{Op: "chat", Err: fmt.Errorf("decode response: %w", err)}
	}
	return strings.TrimSpace(cr.Message.Content), nil
}

// HealthPing verifies the engine is reachable.
func (p *OllamaProvider) HealthPing(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("ollama status %d", resp.StatusCode())
	}
	return nil
}
