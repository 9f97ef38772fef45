// Package reasoner provides external reasoner implementations for the
// dispatch layer.
package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"peticia-hq/minerva/pkg/activation"
	"peticia-hq/minerva/pkg/dispatch"
)

const systemPrompt = `You decide which content modules belong in a generated legal document.

You receive a JSON object with the document type, a list of candidate modules (id, description, category) and the variable values extracted from the case.

For EVERY module id, answer "activate" if the module belongs in the document or "skip" if it does not. When the variables do not clearly support activating a module, answer "skip".

Respond with a single JSON object and nothing else:
{"verdicts": {"<module_id>": "activate" | "skip", ...}}`

// OpenAIConfig configures the OpenAI-backed reasoner.
type OpenAIConfig struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	// Optional.
	BaseURL string

	// Model is the chat model to use.
	// Default: gpt-4o-mini
	Model string

	// Temperature controls sampling. Kept at zero for reproducible
	// verdicts unless overridden.
	Temperature float32

	// MaxTokens bounds the response size.
	// Default: 1024
	MaxTokens int
}

// OpenAIReasoner answers batched activation queries through the OpenAI
// chat-completion API (or any compatible endpoint).
type OpenAIReasoner struct {
	client *openai.Client
	config OpenAIConfig
	logger *slog.Logger
}

// NewOpenAIReasoner creates an OpenAI-backed reasoner.
func NewOpenAIReasoner(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIReasoner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIReasoner{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger.With("component", "dispatch.reasoner"),
	}, nil
}

// Decide sends one batched request and parses the verdict set out of the
// model's JSON response.
func (r *OpenAIReasoner) Decide(ctx context.Context, req *dispatch.Request) (*dispatch.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: r.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: r.config.Temperature,
		MaxTokens:   r.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	verdicts, err := parseVerdicts(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	r.logger.Debug("reasoner response parsed",
		"document_type", req.DocumentType,
		"modules", len(req.Modules),
		"verdicts", len(verdicts),
		"finish_reason", resp.Choices[0].FinishReason,
	)

	return &dispatch.Response{Verdicts: verdicts}, nil
}

// parseVerdicts extracts the verdict map from the model's reply. Markdown
// code fences are tolerated; anything else malformed is an error so the
// dispatch layer fails the whole batch closed.
func parseVerdicts(content string) (map[string]activation.Verdict, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Verdicts map[string]string `json:"verdicts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if parsed.Verdicts == nil {
		return nil, fmt.Errorf("response has no verdicts object")
	}

	verdicts := make(map[string]activation.Verdict, len(parsed.Verdicts))
	for id, raw := range parsed.Verdicts {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "activate":
			verdicts[id] = activation.VerdictActivate
		case "skip":
			verdicts[id] = activation.VerdictSkip
		default:
			return nil, fmt.Errorf("module %q: unknown verdict %q", id, raw)
		}
	}
	return verdicts, nil
}
