package llm

import (
	"context"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector replaces the real collaborator in local development.
// It returns a fixed suggestion list in the shape the system prompt
// asks for, so the extractor and the intake flow behave normally.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting chat completion", zap.Int("message_count", len(messages)))

	reply := `To hire your first employee, you'll typically need the below documents.
Select any you'd like to create now, you can always add them later. You can also upload your own documents to base these on:
1. Offer Letter
2. Employment Agreement
3. NDA
4. IP Assignment Agreement

As part of hiring a new employee, you'll likely have to review documents from the other party like:
- Reference letters
- Prior non-compete agreements
When that happens, Genie will help you review.`

	ctxzap.Info(ctx, "[MOCK] chat completion received", zap.Int("content_length", len(reply)))
	return reply, nil
}
