package conversation

import (
	"context"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/usecase/workbench"
)

type ConversationUsecase interface {
	Create(ctx context.Context, text string) (*entity.Conversation, error)
	ResolveSuggestions(ctx context.Context, id, text string) (*entity.Conversation, error)
	SubmitMessage(ctx context.Context, id, text string) (*entity.Conversation, error)
	ConfigureDocuments(ctx context.Context, id string) (*entity.Conversation, error)
	ContinueToFinalDetails(ctx context.Context, id string) (*entity.Conversation, error)
	RunFinalCheck(ctx context.Context, id string) (*entity.Conversation, error)
	Restart(ctx context.Context, id string) (*entity.Conversation, error)
	Get(ctx context.Context, id string) (*entity.Conversation, error)
}

type WorkbenchUsecase interface {
	ToggleDocument(ctx context.Context, id, document string, selected bool) (*entity.Conversation, error)
	SelectTemplate(ctx context.Context, id, label string, selected bool, usage string) (*entity.Conversation, error)
	SetTemplateUsage(ctx context.Context, id, templateID, usage string) (*entity.Conversation, error)
	SetClauseVisible(ctx context.Context, id, document string, index int, visible bool) (*entity.Conversation, error)
	SetClauseDetail(ctx context.Context, id, document string, index int, details string) (*entity.Conversation, error)
	AddCustomClause(ctx context.Context, id, document, name, details string) (*entity.Conversation, error)
	UpdateCustomClause(ctx context.Context, id, document, clauseID, name, details string) (*entity.Conversation, error)
	RemoveCustomClause(ctx context.Context, id, document, clauseID string) (*entity.Conversation, error)
	SetSlider(ctx context.Context, id string, slider entity.SliderName, value int) (*entity.Conversation, error)
	SetGoverningLaw(ctx context.Context, id, law string) (*entity.Conversation, error)
	SetLanguage(ctx context.Context, id, language string) (*entity.Conversation, error)
	ExportBrief(ctx context.Context, id string, format entity.ExportFormat) (*workbench.Export, error)
}
