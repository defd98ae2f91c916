package httpapi

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/avolkov/secretword/internal/domain"
)

const maxMessageLength = 4000

// TurnDTO is one history entry as sent by the frontend.
type TurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []TurnDTO `json:"conversation_history"`
}

// ChatResponse is the reply payload.
type ChatResponse struct {
	Response         string `json:"response"`
	IsSecretRevealed bool   `json:"is_secret_revealed"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	AppName string `json:"app_name"`
}

// ErrorResponse carries a generic human-readable error description. No
// upstream bodies or internal detail ever appear here.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to " + s.config.AppName,
		"health":  "/api/health",
		"chat":    "/api/chat",
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", AppName: s.config.AppName})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "malformed request body"})
	}

	// Length bounds are a boundary concern; the core never sees an
	// out-of-bounds message.
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "message must not be empty"})
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "message exceeds 4000 characters"})
	}

	history := make([]domain.Turn, 0, len(req.ConversationHistory))
	for _, turn := range req.ConversationHistory {
		history = append(history, domain.Turn{Role: domain.Role(turn.Role), Content: turn.Content})
	}

	reply, err := s.chat.Handle(c.Context(), req.Message, history)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(ChatResponse{Response: reply.Text, IsSecretRevealed: reply.SecretRevealed})
}

// respondError maps the domain error taxonomy to distinct statuses with
// generic messages; full detail is logged server-side only.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	requestID, _ := c.Locals("request_id").(string)

	var invalid *domain.InvalidInputError

	switch {
	case errors.As(err, &invalid):
		s.logger.Warn("rejected invalid input",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		// Surface only the validation message itself, not any internal
		// wrapping added along the way.
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: invalid.Error()})

	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.logger.Error("upstream unavailable",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Detail: "AI service is temporarily unavailable, please try again later",
		})

	default:
		s.logger.Error("internal error",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Detail: "internal server error",
		})
	}
}
