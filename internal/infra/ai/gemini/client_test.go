package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

func candidate(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
	}
}

func TestClient_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.SystemInstruction)
		assert.Contains(t, body.Contents[0].Parts[0].Text, "cannot sleep")
		assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)
		assert.Len(t, body.SafetySettings, len(harmCategories))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidate("```json\n{\"depression_level\":5,\"suicide_risk_level\":3,\"urgency\":\"moderate\"}\n```", "STOP"))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, time.Second)
	res, err := c.Classify(context.Background(), "I cannot sleep")
	require.NoError(t, err)
	assert.Equal(t, 5, res.DepressionLevel)
	assert.Equal(t, 3, res.SuicideRiskLevel)
	assert.Equal(t, analysis.UrgencyModerate, res.Urgency)
	assert.Equal(t, analysis.SourceRemoteModel, res.Source)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   []error
	}{
		{"quota", http.StatusTooManyRequests, map[string]any{"error": map[string]any{"code": 429, "message": "quota"}}, []error{ai.ErrTransport, ai.ErrQuotaExceeded}},
		{"forbidden", http.StatusForbidden, map[string]any{}, []error{ai.ErrConfiguration}},
		{"unavailable", http.StatusServiceUnavailable, map[string]any{}, []error{ai.ErrTransport}},
		{"envelope error", http.StatusOK, map[string]any{"error": map[string]any{"code": 500, "message": "boom"}}, []error{ai.ErrTransport}},
		{"prompt blocked", http.StatusOK, map[string]any{"promptFeedback": map[string]any{"blockReason": "SAFETY"}}, []error{ai.ErrContentBlocked}},
		{"safety finish", http.StatusOK, map[string]any{"candidates": []map[string]any{{"finishReason": "SAFETY"}}}, []error{ai.ErrContentBlocked}},
		{"no candidates", http.StatusOK, map[string]any{"candidates": []any{}}, []error{ai.ErrResponseFormat}},
		{"bad json text", http.StatusOK, candidate("not json", "STOP"), []error{ai.ErrResponseFormat}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			_, err := NewClient("test-key", srv.URL, time.Second).Classify(context.Background(), "text")
			require.Error(t, err)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestClient_PingAndMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Nil(t, body.SystemInstruction)
		json.NewEncoder(w).Encode(candidate(`{"status":"ok"}`, "STOP"))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient("test-key", srv.URL, time.Second).Ping(context.Background()))
	assert.ErrorIs(t, NewClient("", srv.URL, time.Second).Ping(context.Background()), ai.ErrConfiguration)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient("test-key", srv.URL, 5*time.Second).Classify(ctx, "text")
	assert.ErrorIs(t, err, ai.ErrTransport)
}
