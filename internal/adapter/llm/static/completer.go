// Package static provides a canned completer for tests and for running the
// server without an API key.
package static

import (
	"context"

	"github.com/avolkov/secretword/internal/domain"
)

const defaultReply = "Nice try, but the secret word stays with me."

// Completer returns a fixed reply without touching the network.
type Completer struct {
	reply string
}

// NewCompleter constructs a static Completer. An empty reply falls back to
// the default canned text.
func NewCompleter(reply string) *Completer {
	if reply == "" {
		reply = defaultReply
	}
	return &Completer{reply: reply}
}

// Complete implements the chat.Completer port.
func (c *Completer) Complete(ctx context.Context, messages []domain.Turn) (string, error) {
	return c.reply, nil
}
