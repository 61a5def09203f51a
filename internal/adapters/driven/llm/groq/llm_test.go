package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

func TestMain(m *testing.M) {
	retryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func completionResponse(text string) chatCompletionResponse {
	var resp chatCompletionResponse
	resp.Choices = append(resp.Choices, struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}{})
	resp.Choices[0].Message.Content = text
	return resp
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestComplete_ReturnsGeneratedText(t *testing.T) {
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(completionResponse("Theft is covered by Section 303."))
	}))
	defer server.Close()

	svc, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "answer from context"},
		{Role: driven.RoleUser, Content: "what is theft"},
	}, driven.CompleteOptions{MaxTokens: 1024, Temperature: 0.5})
	require.NoError(t, err)

	assert.Equal(t, "Theft is covered by Section 303.", out)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, 1024, gotReq.MaxTokens)
	assert.InDelta(t, 0.5, gotReq.Temperature, 0.001)
	require.Len(t, gotReq.Messages, 2)
}

func TestComplete_RetriesOnRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(completionResponse("recovered"))
	}))
	defer server.Close()

	svc, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, calls)
}

func TestComplete_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.CompleteOptions{})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestComplete_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid key", "type": "auth"},
		})
	}))
	defer server.Close()

	svc, err := New(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.CompleteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.Equal(t, 1, calls)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
