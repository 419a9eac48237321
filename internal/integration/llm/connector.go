package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/genie-legal/intake-backend/internal/config"
	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/integration/common"
	pkghttp "github.com/genie-legal/intake-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends the message history, prefixed with the system prompt,
// to the chat completions endpoint and returns the reply text.
func (c *Connector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	if c.config.Token == "" {
		return "", entity.ErrMissingCredential
	}

	ctxzap.Info(ctx, "requesting chat completion", zap.Int("message_count", len(messages)))

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		Messages: append(
			[]entity.ChatMessage{{Role: entity.RoleSystem, Content: SystemPrompt}},
			messages...,
		),
	}

	var resp entity.ChatCompletionResponse
	err := retry.Do(
		func() error {
			resp = entity.ChatCompletionResponse{}
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatCompletionsEndpoint, req, &resp)
		},
		append(
			c.config.Retry.ToRetryOptions(),
			retry.Context(ctx),
			retry.RetryIf(isRetryable),
			retry.LastErrorOnly(true),
		)...,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrCollaborator, err)
	}

	content := resp.Content()
	if content == "" {
		return "", entity.ErrEmptyCompletion
	}

	ctxzap.Info(ctx, "chat completion received", zap.Int("content_length", len(content)))

	return content, nil
}

// isRetryable keeps retries to transient failures; client errors from
// the provider will not change on a second attempt.
func isRetryable(err error) bool {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}
