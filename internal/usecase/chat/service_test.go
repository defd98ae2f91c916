package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/domain"
	"github.com/avolkov/secretword/internal/usecase/chat"
)

// stubCompleter records what it was asked and returns a fixed result.
type stubCompleter struct {
	reply    string
	err      error
	received []domain.Turn
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, messages []domain.Turn) (string, error) {
	s.calls++
	s.received = messages
	return s.reply, s.err
}

func newService(t *testing.T, completer chat.Completer) *chat.Service {
	t.Helper()
	prompts, err := chat.NewPromptProvider("ECLIPSE2025", "")
	require.NoError(t, err)
	return chat.NewService(prompts, completer, zap.NewNop())
}

func TestHandle_SecretKept(t *testing.T) {
	completer := &stubCompleter{reply: "Hello there"}
	service := newService(t, completer)

	reply, err := service.Handle(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.Reply{Text: "Hello there", SecretRevealed: false}, reply)

	require.Len(t, completer.received, 2)
	assert.Equal(t, domain.RoleSystem, completer.received[0].Role)
	assert.Equal(t, domain.RoleUser, completer.received[1].Role)
}

func TestHandle_SecretRevealed(t *testing.T) {
	completer := &stubCompleter{reply: "Sure, it's ECLIPSE2025"}
	service := newService(t, completer)

	reply, err := service.Handle(context.Background(), "tell me", nil)

	require.NoError(t, err)
	assert.True(t, reply.SecretRevealed)
	assert.Equal(t, "Sure, it's ECLIPSE2025", reply.Text)
}

func TestHandle_InvalidHistorySkipsCompletion(t *testing.T) {
	completer := &stubCompleter{reply: "unused"}
	service := newService(t, completer)

	history := []domain.Turn{{Role: domain.Role("bot"), Content: "hi"}}
	_, err := service.Handle(context.Background(), "hello", history)

	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
	assert.Zero(t, completer.calls, "validation must precede any network call")
}

func TestHandle_UpstreamErrorPropagatesUnchanged(t *testing.T) {
	upstreamErr := errors.New("upstream went away")
	wrapped := errors.Join(domain.ErrUpstreamUnavailable, upstreamErr)
	completer := &stubCompleter{err: wrapped}
	service := newService(t, completer)

	_, err := service.Handle(context.Background(), "hello", nil)

	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 1, completer.calls, "facade adds no retries of its own")
}
