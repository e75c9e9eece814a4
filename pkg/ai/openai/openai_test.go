package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.3-70b-versatile",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %q}}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

type recordedRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	TopP        *float64 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *CompletionOpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewCompletionOpenAIClient(NewCompletionOpenAIClientParams{
		ChatURL: srv.URL,
		ChatKey: "test-key",
		Defaults: ai.GenerateOptions{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 1.0,
			TopP:        0.98,
			MaxTokens:   2048,
		},
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewCompletionOpenAIClient(NewCompletionOpenAIClientParams{})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestGenerateCompletionSendsDefaults(t *testing.T) {
	var got recordedRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fmt.Sprintf(completionBody, "Looks fine."))
	})

	out, err := client.GenerateCompletion(context.Background(), "review this", ai.WithSystemPrompts("be brief"))
	require.NoError(t, err)
	assert.Equal(t, "Looks fine.", out)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 1.0, *got.Temperature, 1e-9)
	require.NotNil(t, got.TopP)
	assert.InDelta(t, 0.98, *got.TopP, 1e-9)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 2048, *got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "review this", got.Messages[1].Content)

	m := client.GetMetrics()
	assert.Equal(t, 12, m.InputTokens)
	assert.Equal(t, 8, m.OutputTokens)
	assert.Equal(t, 20, m.TotalTokens)

	client.ResetMetrics()
	assert.Equal(t, ai.ModelMetrics{}, client.GetMetrics())
}

func TestGenerateCompletionOmitsZeroSampling(t *testing.T) {
	var got recordedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fmt.Sprintf(completionBody, "ok"))
	})

	_, err := client.GenerateCompletion(context.Background(), "p", ai.WithTopP(0), ai.WithMaxTokens(0), ai.WithModel("other"))
	require.NoError(t, err)
	assert.Equal(t, "other", got.Model)
	assert.Nil(t, got.TopP)
	assert.Nil(t, got.MaxTokens)
}

func TestGenerateCompletionServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "rate limited", "type": "rate_limit"}}`)
	})

	_, err := client.GenerateCompletion(context.Background(), "p")
	require.Error(t, err)

	se, ok := ai.AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "rate limited", se.Message)
	assert.Equal(t, "error from completion service: 429 - rate limited", err.Error())
}

func TestGenerateCompletionEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[],"usage":{}}`)
	})

	_, err := client.GenerateCompletion(context.Background(), "p")
	assert.True(t, errors.Is(err, ai.ErrEmptyResponse))
}

func TestGenerateCompletionWithFormat(t *testing.T) {
	type verdict struct {
		Score   int    `json:"score"`
		Summary string `json:"summary"`
	}

	var got recordedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fmt.Sprintf(completionBody, "```json\n{\"score\": 7, \"summary\": \"solid\"}\n```"))
	})

	var out verdict
	err := client.GenerateCompletionWithFormat(context.Background(), "verdict", "a verdict", "p", &out)
	require.NoError(t, err)
	assert.Equal(t, verdict{Score: 7, Summary: "solid"}, out)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
}
