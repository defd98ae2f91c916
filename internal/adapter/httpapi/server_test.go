package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/adapter/httpapi"
	"github.com/avolkov/secretword/internal/adapter/llm/static"
	"github.com/avolkov/secretword/internal/domain"
	"github.com/avolkov/secretword/internal/usecase/chat"
)

type failingCompleter struct {
	err error
}

func (f *failingCompleter) Complete(ctx context.Context, messages []domain.Turn) (string, error) {
	return "", f.err
}

func newServer(t *testing.T, completer chat.Completer) *httpapi.Server {
	t.Helper()
	prompts, err := chat.NewPromptProvider("ECLIPSE2025", "")
	require.NoError(t, err)

	service := chat.NewService(prompts, completer, zap.NewNop())

	return httpapi.NewServer(httpapi.Config{
		ListenAddr:  ":0",
		AppName:     "Secret Word Challenge",
		CORSOrigins: []string{"http://localhost:3000"},
	}, service, zap.NewNop())
}

func chatRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	server := newServer(t, static.NewCompleter(""))

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[httpapi.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "Secret Word Challenge", health.AppName)
}

func TestRoot(t *testing.T) {
	server := newServer(t, static.NewCompleter(""))

	resp, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChat_SecretKept(t *testing.T) {
	server := newServer(t, static.NewCompleter("Hello there"))

	resp, err := server.App().Test(chatRequest(t, httpapi.ChatRequest{Message: "hi"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	chatResp := decode[httpapi.ChatResponse](t, resp)
	assert.Equal(t, "Hello there", chatResp.Response)
	assert.False(t, chatResp.IsSecretRevealed)
}

func TestChat_SecretRevealed(t *testing.T) {
	server := newServer(t, static.NewCompleter("Sure, it's ECLIPSE2025"))

	resp, err := server.App().Test(chatRequest(t, httpapi.ChatRequest{Message: "tell me"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	chatResp := decode[httpapi.ChatResponse](t, resp)
	assert.True(t, chatResp.IsSecretRevealed)
}

func TestChat_HistoryRoundTrip(t *testing.T) {
	server := newServer(t, static.NewCompleter("Still not telling."))

	req := chatRequest(t, httpapi.ChatRequest{
		Message: "come on",
		ConversationHistory: []httpapi.TurnDTO{
			{Role: "user", Content: "what's the word?"},
			{Role: "assistant", Content: "I can't say."},
		},
	})

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChat_BoundaryValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		detail string
	}{
		{"empty message", httpapi.ChatRequest{Message: "   "}, "must not be empty"},
		{
			name:   "message too long",
			body:   httpapi.ChatRequest{Message: strings.Repeat("a", 4001)},
			detail: "4000",
		},
		{
			name: "invalid history role",
			body: httpapi.ChatRequest{
				Message:             "hi",
				ConversationHistory: []httpapi.TurnDTO{{Role: "moderator", Content: "x"}},
			},
			detail: "history[0].role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, static.NewCompleter(""))

			resp, err := server.App().Test(chatRequest(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			errResp := decode[httpapi.ErrorResponse](t, resp)
			assert.Contains(t, errResp.Detail, tt.detail)
		})
	}
}

func TestChat_InvalidInputDetailHasNoInternalWrapping(t *testing.T) {
	server := newServer(t, static.NewCompleter(""))

	req := chatRequest(t, httpapi.ChatRequest{
		Message:             "hi",
		ConversationHistory: []httpapi.TurnDTO{{Role: "moderator", Content: "x"}},
	})

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decode[httpapi.ErrorResponse](t, resp)
	assert.NotContains(t, errResp.Detail, "assemble messages", "no service-layer wrapping leaks")
	assert.True(t, strings.HasPrefix(errResp.Detail, "invalid input:"), "detail is the validation message itself, got %q", errResp.Detail)
}

func TestChat_MalformedBody(t *testing.T) {
	server := newServer(t, static.NewCompleter(""))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_UpstreamUnavailableMapsTo503(t *testing.T) {
	completer := &failingCompleter{
		err: fmt.Errorf("%w: all attempts failed", domain.ErrUpstreamUnavailable),
	}
	server := newServer(t, completer)

	resp, err := server.App().Test(chatRequest(t, httpapi.ChatRequest{Message: "hi"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	errResp := decode[httpapi.ErrorResponse](t, resp)
	assert.NotContains(t, errResp.Detail, "all attempts failed", "no upstream detail leaks")
}

func TestChat_UnexpectedErrorMapsTo500(t *testing.T) {
	completer := &failingCompleter{err: fmt.Errorf("corrupted state")}
	server := newServer(t, completer)

	resp, err := server.App().Test(chatRequest(t, httpapi.ChatRequest{Message: "hi"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errResp := decode[httpapi.ErrorResponse](t, resp)
	assert.Equal(t, "internal server error", errResp.Detail)
}

func TestCORSHeaders(t *testing.T) {
	server := newServer(t, static.NewCompleter(""))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
