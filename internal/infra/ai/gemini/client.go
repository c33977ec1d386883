package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/infra/ai/prompt"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	maxOutputTokens = 2048
	defaultTimeout  = 30 * time.Second
	finishSafety    = "SAFETY"
)

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SafetySettings    []safetySetting  `json:"safetySettings"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	http     *resty.Client
	apiKey   string
	endpoint string
}

func NewClient(apiKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:     resty.New().SetTimeout(timeout).SetHeader("Content-Type", "application/json"),
		apiKey:   apiKey,
		endpoint: endpoint,
	}
}

// Classify sends one generateContent request for text and validates the reply.
func (c *Client) Classify(ctx context.Context, text string) (analysis.Result, error) {
	raw, err := c.generate(ctx, prompt.GetSystemPrompt(), prompt.GetUserPrompt(text))
	if err != nil {
		return analysis.Result{}, err
	}
	return prompt.ParseReply(raw)
}

// Ping checks the credential and endpoint with a minimal prompt.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.generate(ctx, "", prompt.GetProbePrompt())
	return err
}

func (c *Client) generate(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ai.ErrConfiguration
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: user}}}},
		GenerationConfig: generationConfig{
			Temperature:      0.1,
			TopK:             1,
			TopP:             1,
			MaxOutputTokens:  maxOutputTokens,
			ResponseMimeType: "application/json",
		},
	}
	if system != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	for _, cat := range harmCategories {
		body.SafetySettings = append(body.SafetySettings, safetySetting{Category: cat, Threshold: "BLOCK_NONE"})
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrTransport, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %w", ai.ErrTransport, ai.ErrQuotaExceeded)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ai.ErrConfiguration, status)
	case status != http.StatusOK:
		return "", fmt.Errorf("%w: status %d: %s", ai.ErrTransport, status, truncate(string(resp.Body()), 256))
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %v", ai.ErrResponseFormat, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ai.ErrTransport, out.Error.Message)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ai.ErrContentBlocked, out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ai.ErrResponseFormat)
	}
	cand := out.Candidates[0]
	if len(cand.Content.Parts) == 0 || cand.Content.Parts[0].Text == "" {
		if cand.FinishReason == finishSafety {
			return "", ai.ErrContentBlocked
		}
		return "", fmt.Errorf("%w: candidate has no text (finishReason=%s)", ai.ErrResponseFormat, cand.FinishReason)
	}
	return cand.Content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
