package chat

import (
	"strings"

	"github.com/avolkov/secretword/internal/domain"
)

// Assembler builds the outbound message set sent to the completion API:
// one system turn, the caller's history, then the new user turn.
type Assembler struct {
	prompts *PromptProvider
}

// NewAssembler constructs an Assembler.
func NewAssembler(prompts *PromptProvider) *Assembler {
	return &Assembler{prompts: prompts}
}

// Build validates the user message and every history entry, then returns
// the fully assembled sequence. It fails on the first violation with a
// domain.InvalidInputError and never returns a partial assembly. No network
// I/O happens here, so malformed input cannot consume the retry budget.
func (a *Assembler) Build(userMessage string, history []domain.Turn) ([]domain.Turn, error) {
	systemPrompt := a.prompts.SystemPrompt()
	if systemPrompt == "" {
		return nil, domain.NewInvalidFieldError("system_prompt", "must not be empty")
	}

	if strings.TrimSpace(userMessage) == "" {
		return nil, domain.NewInvalidFieldError("message", "must not be empty")
	}

	messages := make([]domain.Turn, 0, len(history)+2)
	messages = append(messages, domain.Turn{Role: domain.RoleSystem, Content: systemPrompt})

	for i, turn := range history {
		// The assembler injects its own single system turn; any system
		// turns supplied by the caller are dropped, not rejected.
		if turn.Role == domain.RoleSystem {
			continue
		}
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleAssistant {
			return nil, domain.NewInvalidInputError(i, "role",
				"must be one of user, assistant, system")
		}
		if !turn.HasContent() {
			return nil, domain.NewInvalidInputError(i, "content", "must not be empty")
		}
		messages = append(messages, turn)
	}

	messages = append(messages, domain.Turn{Role: domain.RoleUser, Content: userMessage})

	return messages, nil
}
