package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/infra/ai/prompt"
)

const (
	maxTokens      = 2048
	temperature    = 0.1
	topP           = 1
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
)

type Client struct {
	api     *openai.Client
	apiKey  string
	Model   string
	timeout time.Duration
}

// NewClient builds a chat-completions client. baseURL may point at any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{api: openai.NewClientWithConfig(cfg), apiKey: apiKey, Model: model, timeout: timeout}
}

// Classify sends one request for text and validates the reply. It never retries.
func (c *Client) Classify(ctx context.Context, text string) (analysis.Result, error) {
	raw, err := c.complete(ctx, prompt.GetSystemPrompt(), prompt.GetUserPrompt(text))
	if err != nil {
		return analysis.Result{}, err
	}
	return prompt.ParseReply(raw)
}

// Ping checks the credential and endpoint with a minimal completion.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.complete(ctx, "", prompt.GetProbePrompt())
	return err
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ai.ErrConfiguration
	}
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: msgs,
	}
	// Reasoning models (o1/o3/o4/gpt-5*) reject sampling controls and use MaxCompletionTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = temperature
		req.TopP = topP
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", ai.ErrResponseFormat)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", ai.ErrContentBlocked
	}
	return choice.Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := strings.ToLower(fmt.Sprint(apiErr.Code))
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w: %s", ai.ErrTransport, ai.ErrQuotaExceeded, apiErr.Message)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ai.ErrConfiguration, apiErr.Message)
		case code == "content_filter" || code == "content_policy_violation":
			return fmt.Errorf("%w: %s", ai.ErrContentBlocked, apiErr.Message)
		}
		return fmt.Errorf("%w: status %d: %s", ai.ErrTransport, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ai.ErrTransport, err)
}
