package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/domain"
)

// Completer is the port to the remote completion API. Implementations are
// responsible for their own retry policy; the service adds none on top.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Turn) (string, error)
}

// Service composes assembly, completion, and leak detection into one
// request/response operation for the HTTP layer.
type Service struct {
	assembler *Assembler
	completer Completer
	detector  *LeakDetector
	logger    *zap.Logger
}

// NewService constructs the chat service.
func NewService(prompts *PromptProvider, completer Completer, logger *zap.Logger) *Service {
	return &Service{
		assembler: NewAssembler(prompts),
		completer: completer,
		detector:  NewLeakDetector(prompts),
		logger:    logger,
	}
}

// Handle runs one chat exchange: validate and assemble the message set,
// obtain a completion, evaluate it for leakage, and build the Reply. Typed
// failures from the assembler and completer propagate unchanged.
func (s *Service) Handle(ctx context.Context, userMessage string, history []domain.Turn) (domain.Reply, error) {
	messages, err := s.assembler.Build(userMessage, history)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("assemble messages: %w", err)
	}

	text, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return domain.Reply{}, err
	}

	revealed := s.detector.Evaluate(text)
	if revealed {
		s.logger.Info("secret word revealed in reply")
	}

	return domain.Reply{Text: text, SecretRevealed: revealed}, nil
}
