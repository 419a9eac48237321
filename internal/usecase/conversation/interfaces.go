package conversation

import (
	"context"

	"github.com/genie-legal/intake-backend/internal/entity"
)

// Collaborator is the external LLM service authoring the unguided
// assistant replies.
type Collaborator interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}
