package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	llmhttp "github.com/avolkov/secretword/internal/adapter/llm/http"
	"github.com/avolkov/secretword/internal/domain"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 30 * time.Second

	// Ceiling for one Complete call across all attempts and backoff sleeps,
	// so persistent degenerate output cannot stretch a request indefinitely.
	defaultRequestBudget = 60 * time.Second
)

// Generation parameters are fixed policy, not tuned per request.
const (
	maxOutputTokens  = 1024
	temperature      = 0.4
	topP             = 0.9
	frequencyPenalty = 0.3
)

// HTTPClient calls an OpenAI-compatible Chat Completions API with bounded
// retries. Safe for concurrent use; all per-call state is request-local.
type HTTPClient struct {
	apiKey        string
	model         string
	baseURL       string
	requestBudget time.Duration
	retry         llmhttp.RetryConfig
	client        *http.Client
	logger        *zap.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout overrides the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(retry llmhttp.RetryConfig) Option {
	return func(c *HTTPClient) {
		c.retry = retry
	}
}

// WithRequestBudget overrides the wall-clock ceiling for a whole Complete
// call, backoff included.
func WithRequestBudget(budget time.Duration) Option {
	return func(c *HTTPClient) {
		c.requestBudget = budget
	}
}

// NewHTTPClient creates a new completion client.
func NewHTTPClient(apiKey, model string, logger *zap.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		apiKey:        apiKey,
		model:         model,
		baseURL:       defaultBaseURL,
		requestBudget: defaultRequestBudget,
		retry:         llmhttp.DefaultRetryConfig(),
		client:        &http.Client{Timeout: defaultTimeout},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the assembled message set to the API and returns the reply
// text. Transport failures, malformed response shapes, and degenerate
// content all share one retry policy; the last failure is propagated as
// domain.ErrUpstreamUnavailable once the budget is spent.
func (c *HTTPClient) Complete(ctx context.Context, messages []domain.Turn) (string, error) {
	body, err := json.Marshal(c.buildRequest(messages))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestBudget)
	defer cancel()

	var text string
	operation := func(ctx context.Context) error {
		reply, err := c.attempt(ctx, body)
		if err != nil {
			return err
		}
		text = reply
		return nil
	}

	onRetry := func(attempt int, err error, delay time.Duration) {
		c.logger.Warn("completion attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.retry.MaxAttempts),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retry, onRetry); err != nil {
		if errors.Is(err, context.Canceled) {
			// Caller went away; unwind without reclassifying.
			return "", err
		}
		c.logger.Error("completion failed after all attempts", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	return text, nil
}

// attempt performs one request/response cycle and validates the result.
func (c *HTTPClient) attempt(ctx context.Context, body []byte) (string, error) {
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", llmhttp.NewTimeoutError(providerName, err.Error())
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llmhttp.NewTimeoutError(providerName, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, payload)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(payload, &chatResp); err != nil {
		return "", llmhttp.NewMalformedResponseError(providerName, fmt.Sprintf("parse response: %v", err))
	}

	if len(chatResp.Choices) == 0 {
		return "", llmhttp.NewMalformedResponseError(providerName, "no choices in response")
	}

	text := chatResp.Choices[0].Message.Content
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n <= 1 {
		return "", llmhttp.NewDegenerateContentError(providerName,
			fmt.Sprintf("reply trims to %d chars", n))
	}

	c.logger.Debug("completion succeeded",
		zap.String("model", chatResp.Model),
		zap.Int("tokens_in", chatResp.Usage.PromptTokens),
		zap.Int("tokens_out", chatResp.Usage.CompletionTokens),
		zap.String("finish_reason", chatResp.Choices[0].FinishReason),
	)

	return text, nil
}

// buildRequest converts the assembled turns into the wire format.
func (c *HTTPClient) buildRequest(messages []domain.Turn) ChatCompletionRequest {
	wire := make([]Message, 0, len(messages))
	for _, turn := range messages {
		wire = append(wire, Message{Role: string(turn.Role), Content: turn.Content})
	}

	return ChatCompletionRequest{
		Model:            c.model,
		Messages:         wire,
		MaxTokens:        maxOutputTokens,
		Temperature:      temperature,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
	}
}

// handleErrorResponse converts HTTP error responses to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		message = string(body)
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmhttp.NewAuthenticationError(providerName, message)
	case http.StatusTooManyRequests:
		return llmhttp.NewRateLimitError(providerName, message)
	case http.StatusBadRequest:
		return llmhttp.NewInvalidRequestError(providerName, message)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return llmhttp.NewServiceUnavailableError(providerName, message)
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}
	}
}
