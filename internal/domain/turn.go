package domain

import "strings"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is a single role-tagged message in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HasContent reports whether the turn carries non-whitespace content.
func (t Turn) HasContent() bool {
	return strings.TrimSpace(t.Content) != ""
}

// Reply is the outcome of one chat exchange. It is built per request and
// never stored server-side.
type Reply struct {
	Text           string
	SecretRevealed bool
}
