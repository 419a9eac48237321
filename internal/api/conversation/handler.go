package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/pkg/logger"
	"github.com/genie-legal/intake-backend/internal/pkg/response"
	"github.com/genie-legal/intake-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	conversation ConversationUsecase
	workbench    WorkbenchUsecase
	validator    *validator.Validator
}

func NewHandler(
	conversation ConversationUsecase,
	workbench WorkbenchUsecase,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		conversation: conversation,
		workbench:    workbench,
		validator:    validator,
	}
}

// StartConversation handles POST /conversation - Open a conversation
//
// The conversation is created synchronously so the client gets its ID;
// the document suggestion call runs in the background while the client
// polls GetConversation for the thinking line and the reply.
func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartConversation")

	var req entity.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateStartConversation(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.conversation.Create(ctx, req.Message)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("conversation_id", conv.ID),
			zap.String("action", "StartConversation-async"),
		)

		if _, err := h.conversation.ResolveSuggestions(bgCtx, conv.ID, req.Message); err != nil {
			ctxzap.Error(bgCtx, "failed to resolve document suggestions", zap.Error(err))
		}
	}()

	h.respondJSON(w, http.StatusCreated, toConversationDTO(conv))
}

// GetConversation handles GET /conversation/{id} - Get current state
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "GetConversation")

	ctxzap.Debug(ctx, "fetching conversation")

	conv, err := h.conversation.Get(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SubmitMessage handles POST /conversation/{id}/message - Submit a user message
//
// The reply can involve collaborator calls and pacing dwells, so the
// step advance runs in the background.
func (h *Handler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SubmitMessage")

	var req entity.SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSubmitMessage(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	if _, err := h.conversation.Get(ctx, conversationID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("conversation_id", conversationID),
			zap.String("action", "SubmitMessage-async"),
		)

		if _, err := h.conversation.SubmitMessage(bgCtx, conversationID, req.Message); err != nil {
			ctxzap.Error(bgCtx, "failed to process message", zap.Error(err))
		}
	}()

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "message is being processed",
	})
}

// ConfigureDocuments handles POST /conversation/{id}/configure - Enter the guided questions
func (h *Handler) ConfigureDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "ConfigureDocuments")

	conv, err := h.conversation.Get(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if conv.Step != entity.StepOutcomes {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: configure on step '%s'", entity.ErrWrongStep, conv.Step))
		return
	}

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("conversation_id", conversationID),
			zap.String("action", "ConfigureDocuments-async"),
		)

		if _, err := h.conversation.ConfigureDocuments(bgCtx, conversationID); err != nil {
			ctxzap.Error(bgCtx, "failed to configure documents", zap.Error(err))
		}
	}()

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "document configuration is being processed",
	})
}

// ContinueToFinalDetails handles POST /conversation/{id}/continue - Leave the clauses step
func (h *Handler) ContinueToFinalDetails(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "ContinueToFinalDetails")

	conv, err := h.conversation.ContinueToFinalDetails(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// RunFinalCheck handles POST /conversation/{id}/final-check - Run the closing review
func (h *Handler) RunFinalCheck(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "RunFinalCheck")

	conv, err := h.conversation.Get(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if conv.Step != entity.StepComplete {
		h.handleUsecaseError(ctx, w, fmt.Errorf("%w: final check on step '%s'", entity.ErrWrongStep, conv.Step))
		return
	}

	go func() {
		bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
			zap.String("conversation_id", conversationID),
			zap.String("action", "RunFinalCheck-async"),
		)

		if _, err := h.conversation.RunFinalCheck(bgCtx, conversationID); err != nil {
			ctxzap.Error(bgCtx, "failed to run final check", zap.Error(err))
		}
	}()

	h.respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "final check is being processed",
	})
}

// Restart handles POST /conversation/{id}/restart - Discard the dialogue state
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "Restart")

	ctxzap.Info(ctx, "restarting conversation")

	conv, err := h.conversation.Restart(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// ToggleDocument handles POST /conversation/{id}/documents/toggle - Change a document selection
func (h *Handler) ToggleDocument(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "ToggleDocument")

	var req entity.ToggleDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateToggleDocument(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.ToggleDocument(ctx, conversationID, req.Document, req.Selected)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SelectTemplate handles POST /conversation/{id}/templates/select - Change a template selection
func (h *Handler) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SelectTemplate")

	var req entity.SelectTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSelectTemplate(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.SelectTemplate(ctx, conversationID, req.Label, req.Selected, req.Usage)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SetClauseVisibility handles PUT /conversation/{id}/clauses/visibility - Include or exclude a clause
func (h *Handler) SetClauseVisibility(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SetClauseVisibility")

	var req entity.ClauseVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateClauseRef(req.Document, req.Index); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.SetClauseVisible(ctx, conversationID, req.Document, req.Index, req.Visible)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SetClauseDetail handles PUT /conversation/{id}/clauses/detail - Store clause drafting notes
func (h *Handler) SetClauseDetail(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SetClauseDetail")

	var req entity.ClauseDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateClauseRef(req.Document, req.Index); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.SetClauseDetail(ctx, conversationID, req.Document, req.Index, req.Details)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// AddCustomClause handles POST /conversation/{id}/clauses/custom - Add a user-authored clause
func (h *Handler) AddCustomClause(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "AddCustomClause")

	var req entity.CustomClauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateCustomClause(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.AddCustomClause(ctx, conversationID, req.Document, req.Name, req.Details)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toConversationDTO(conv))
}

// UpdateCustomClause handles PATCH /conversation/{id}/clauses/custom/{clause_id}
func (h *Handler) UpdateCustomClause(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "UpdateCustomClause")
	clauseID := chi.URLParam(r, "clause_id")

	var req entity.CustomClauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateCustomClause(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	conv, err := h.workbench.UpdateCustomClause(ctx, conversationID, req.Document, clauseID, req.Name, req.Details)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// RemoveCustomClause handles DELETE /conversation/{id}/clauses/custom/{clause_id}
func (h *Handler) RemoveCustomClause(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "RemoveCustomClause")
	clauseID := chi.URLParam(r, "clause_id")

	document := r.URL.Query().Get("document")
	if document == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed",
			fmt.Errorf("%w: document", entity.ErrMissingField))
		return
	}

	conv, err := h.workbench.RemoveCustomClause(ctx, conversationID, document, clauseID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SetSlider handles PUT /conversation/{id}/settings/{slider} - Move a draft-setting slider
func (h *Handler) SetSlider(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SetSlider")
	slider := entity.SliderName(chi.URLParam(r, "slider"))

	var req entity.SliderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	conv, err := h.workbench.SetSlider(ctx, conversationID, slider, req.Value)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SetGoverningLaw handles PUT /conversation/{id}/law
func (h *Handler) SetGoverningLaw(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SetGoverningLaw")

	var req entity.GoverningLawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	conv, err := h.workbench.SetGoverningLaw(ctx, conversationID, req.GoverningLaw)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// SetLanguage handles PUT /conversation/{id}/language
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "SetLanguage")

	var req entity.LanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	conv, err := h.workbench.SetLanguage(ctx, conversationID, req.Language)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toConversationDTO(conv))
}

// ExportBrief handles GET /conversation/{id}/export - Download the drafting brief
func (h *Handler) ExportBrief(w http.ResponseWriter, r *http.Request) {
	ctx, conversationID := h.actionContext(r, "ExportBrief")

	format, err := entity.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", r.URL.Query().Get("format")))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("format must be one of: markdown, pdf, docx"))
		return
	}

	export, err := h.workbench.ExportBrief(ctx, conversationID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "drafting brief exported", zap.String("filename", export.Filename))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
}

// Helper methods

func (h *Handler) actionContext(r *http.Request, action string) (context.Context, string) {
	conversationID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("conversation_id", conversationID),
		zap.String("action", action),
	)
	return ctx, conversationID
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrConversationNotFound) || errors.Is(err, entity.ErrClauseNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) ||
		errors.Is(err, entity.ErrEmptyMessage) || errors.Is(err, entity.ErrUnknownSlider) ||
		errors.Is(err, entity.ErrUnsupportedFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrWrongStep) || errors.Is(err, entity.ErrNoDocumentsSelected) {
		h.respondError(ctx, w, http.StatusConflict, "invalid conversation state", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
