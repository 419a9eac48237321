package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/pkg/logger"
	"github.com/genie-legal/intake-backend/internal/pkg/response"
	"github.com/genie-legal/intake-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler is the stateless chat passthrough. Its response bodies are
// part of the client contract and stay exactly as the web client
// expects them, including the error strings.
type Handler struct {
	llm       Collaborator
	validator *validator.Validator
}

func NewHandler(llm Collaborator, validator *validator.Validator) *Handler {
	return &Handler{
		llm:       llm,
		validator: validator,
	}
}

// Chat handles /api/chat - relay a message history to the collaborator
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Missing messages")
		return
	}

	if err := h.validator.ValidateChat(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Missing messages")
		return
	}

	ctxzap.Info(ctx, "relaying chat completion", zap.Int("messages", len(req.Messages)))

	content, err := h.llm.Complete(ctx, req.Messages)
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		if errors.Is(err, entity.ErrMissingCredential) {
			response.Error(w, http.StatusInternalServerError, "Missing OPENAI_API_KEY")
			return
		}
		response.Error(w, http.StatusInternalServerError, "AI request failed")
		return
	}

	response.Success(w, entity.ChatResponse{Content: content})
}
