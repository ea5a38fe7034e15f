package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swunglabs/swung/internal/model"
)

type staticCreds struct{ err error }

func (s staticCreds) Credential() (*Credential, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Credential{Raw: "tid=test;exp=9999999999", Exp: 9999999999}, nil
}

func TestClientComplete_StreamsAndFolds(t *testing.T) {
	var gotBody wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer tid=test;exp=9999999999", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Equal(t, "vscode-chat", r.Header.Get("Copilot-Integration-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"choices\":[{\"delta\":{\"content\":\"Sure, \"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"scheduling it.\",\"tool_calls\":[{\"index\":0,\"id\":\"c1\",\"function\":{\"name\":\"create_event\",\"arguments\":\"{\\\"title\\\":\\\"Gym\\\"}\"}}]}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gpt-4o", 10*time.Second, staticCreds{})
	out, err := c.Complete(context.Background(), ChatRequest{
		Messages:    []Message{{Role: "user", Content: "gym at 6"}},
		Tools:       []Tool{{Type: "function", Function: ToolFunction{Name: "create_event"}}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sure, scheduling it.", out.Content)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "create_event", out.ToolCalls[0].Name)

	// The upstream only supports streaming; tools imply auto tool choice.
	assert.True(t, gotBody.Stream)
	assert.Equal(t, "auto", gotBody.ToolChoice)
	assert.Equal(t, "gpt-4o", gotBody.Model)
	assert.Equal(t, 1, gotBody.N)
}

func TestClientComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gpt-4o", 10*time.Second, staticCreds{})
	_, err := c.Complete(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
	assert.True(t, errors.Is(err, model.ErrUpstream), "got %v", err)
}

func TestClientComplete_NotAuthenticated(t *testing.T) {
	c := NewClient("http://unused.invalid", "gpt-4o", time.Second, staticCreds{err: model.ErrNotAuthenticated})
	_, err := c.Complete(context.Background(), ChatRequest{})
	assert.True(t, errors.Is(err, model.ErrNotAuthenticated))
}
