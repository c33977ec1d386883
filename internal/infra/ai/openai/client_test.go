package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
	}
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Classify(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
		assert.InDelta(t, 0.1, body["temperature"], 1e-9)
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Contains(t, msgs[1].(map[string]any)["content"], "rough week")

		json.NewEncoder(w).Encode(completion(`{"depression_level":4,"suicide_risk_level":1,"urgency":"moderate","reasoning":"ok"}`, "stop"))
	})

	c := NewClient("test-key", srv.URL, "", time.Second)
	res, err := c.Classify(context.Background(), "rough week")
	require.NoError(t, err)
	assert.Equal(t, 4, res.DepressionLevel)
	assert.Equal(t, 1, res.SuicideRiskLevel)
	assert.Equal(t, analysis.UrgencyModerate, res.Urgency)
	assert.Equal(t, analysis.SourceRemoteModel, res.Source)
}

func TestClient_PingMentionsJSONInJSONMode(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 1)
		content := msgs[0].(map[string]any)["content"].(string)
		if !strings.Contains(strings.ToLower(content), "json") {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
				"message": "'messages' must contain the word 'json' in some form, to use 'response_format' of type 'json_object'.",
				"type":    "invalid_request_error",
			}})
			return
		}
		json.NewEncoder(w).Encode(completion(`{"status":"ok"}`, "stop"))
	})

	c := NewClient("test-key", srv.URL, "", time.Second)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestClient_ReasoningModelOmitsSampling(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.NotContains(t, body, "temperature")
		assert.EqualValues(t, maxTokens, body["max_completion_tokens"])
		json.NewEncoder(w).Encode(completion(`{"depression_level":0,"suicide_risk_level":0}`, "stop"))
	})

	c := NewClient("test-key", srv.URL, "o3-mini", time.Second)
	_, err := c.Classify(context.Background(), "fine")
	require.NoError(t, err)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   []error
	}{
		{
			name:   "quota",
			status: http.StatusTooManyRequests,
			body:   map[string]any{"error": map[string]any{"message": "quota", "type": "insufficient_quota", "code": "insufficient_quota"}},
			want:   []error{ai.ErrTransport, ai.ErrQuotaExceeded},
		},
		{
			name:   "bad key",
			status: http.StatusUnauthorized,
			body:   map[string]any{"error": map[string]any{"message": "bad key", "type": "invalid_request_error", "code": "invalid_api_key"}},
			want:   []error{ai.ErrConfiguration},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   map[string]any{"error": map[string]any{"message": "upstream", "type": "server_error"}},
			want:   []error{ai.ErrTransport},
		},
		{
			name:   "policy",
			status: http.StatusBadRequest,
			body:   map[string]any{"error": map[string]any{"message": "blocked", "type": "invalid_request_error", "code": "content_policy_violation"}},
			want:   []error{ai.ErrContentBlocked},
		},
		{
			name:   "filtered completion",
			status: http.StatusOK,
			body:   completion("", "content_filter"),
			want:   []error{ai.ErrContentBlocked},
		},
		{
			name:   "prose reply",
			status: http.StatusOK,
			body:   completion("The writer seems fine.", "stop"),
			want:   []error{ai.ErrResponseFormat},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   map[string]any{"id": "x", "object": "chat.completion", "choices": []any{}},
			want:   []error{ai.ErrResponseFormat},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, _ map[string]any) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(tc.body)
			})
			c := NewClient("test-key", srv.URL, "", time.Second)
			_, err := c.Classify(context.Background(), "text")
			require.Error(t, err)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestClient_QuotaKind(t *testing.T) {
	err := classifyError(&goopenai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"})
	assert.Equal(t, "quota", ai.Kind(err))
	assert.True(t, errors.Is(err, ai.ErrTransport))
}

func TestClient_MissingKey(t *testing.T) {
	c := NewClient("  ", "http://127.0.0.1:1", "", time.Second)
	_, err := c.Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ai.ErrConfiguration)
	assert.ErrorIs(t, c.Ping(context.Background()), ai.ErrConfiguration)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "", 50*time.Millisecond)
	_, err := c.Classify(context.Background(), "text")
	assert.ErrorIs(t, err, ai.ErrTransport)
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o1-preview"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
}
