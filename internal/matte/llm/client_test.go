package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matte/internal/common/config"
	commonhttp "matte/internal/common/http"
	"matte/internal/common/logger"
	"matte/internal/matte/prompt"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		BaseURL:     baseURL,
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		MaxTokens:   400,
		Temperature: 0.3,
		Timeout:     2000,
	}
}

func completion(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": text}},
		},
		"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
	})
	return string(body)
}

func TestComplete_SendsSystemAndUserMessages(t *testing.T) {
	var got chatRequest
	var gotAuth, gotPath, gotUA string
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("  You have 3 unpaid invoices totaling $450.00.  ")))
	})

	c := New(testConfig(srv.URL+"/v1/"), commonhttp.NewClient(time.Second, "matte-test"), logger.NewTestLogger(t))
	require.True(t, c.Enabled())

	text, err := c.Complete(context.Background(), prompt.Pair{System: "sys", User: "Unpaid invoices: 3"})
	require.NoError(t, err)

	assert.Equal(t, "You have 3 unpaid invoices totaling $450.00.", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "matte-test", gotUA)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 400, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "sys", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Unpaid invoices: 3", got.Messages[1].Content)
}

func TestComplete_NotConfigured(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	c := New(cfg, nil, logger.NewNoOpLogger())

	assert.False(t, c.Enabled())
	_, err := c.Complete(context.Background(), prompt.Pair{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
}

func TestComplete_ServerErrorIsNotRetried(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream overloaded","type":"server_error"}}`))
	})

	c := New(testConfig(srv.URL), nil, logger.NewNoOpLogger())
	_, err := c.Complete(context.Background(), prompt.Pair{System: "s", User: "u"})

	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestComplete_EmptyReply(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("   ")))
	})

	c := New(testConfig(srv.URL), nil, logger.NewNoOpLogger())
	_, err := c.Complete(context.Background(), prompt.Pair{System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestComplete_NoChoices(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	c := New(testConfig(srv.URL), nil, logger.NewNoOpLogger())
	_, err := c.Complete(context.Background(), prompt.Pair{System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestComplete_Timeout(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50
	c := New(cfg, nil, logger.NewNoOpLogger())

	_, err := c.Complete(context.Background(), prompt.Pair{System: "s", User: "u"})
	assert.ErrorIs(t, err, ErrTimeout)
}
