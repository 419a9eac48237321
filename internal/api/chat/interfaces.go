package chat

import (
	"context"

	"github.com/genie-legal/intake-backend/internal/entity"
)

// Collaborator produces one assistant reply for a message history.
type Collaborator interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}
