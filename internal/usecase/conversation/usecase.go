package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/genie-legal/intake-backend/internal/classify"
	"github.com/genie-legal/intake-backend/internal/config"
	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/extract"
	"github.com/genie-legal/intake-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase drives the guided intake dialogue. Steps only move forward;
// a conversation returns to the start through Restart alone.
//
// The fixed pacing dwells are played inline, so the longer transitions
// are expected to run on a background goroutine with the client
// polling Get for the current thinking line.
type Usecase struct {
	repo repository.ConversationRepository
	llm  Collaborator
	flow config.FlowConfig

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewUsecase(
	repo repository.ConversationRepository,
	llm Collaborator,
	flow config.FlowConfig,
) *Usecase {
	return &Usecase{
		repo:  repo,
		llm:   llm,
		flow:  flow,
		sleep: time.Sleep,
	}
}

// Start opens a conversation with the user's statement of intent and
// asks the collaborator for document suggestions.
func (u *Usecase) Start(ctx context.Context, text string) (*entity.Conversation, error) {
	conv, err := u.Create(ctx, text)
	if err != nil {
		return nil, err
	}
	return u.ResolveSuggestions(ctx, conv.ID, text)
}

// Create opens the conversation with the user's first message and the
// first thinking line already showing. The suggestion call is a
// separate phase so a handler can run it in the background.
func (u *Usecase) Create(ctx context.Context, text string) (*entity.Conversation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entity.ErrEmptyMessage
	}

	conv := &entity.Conversation{
		ID:           uuid.NewString(),
		Step:         entity.StepInitial,
		SelectedDocs: map[string]bool{},
		Settings:     entity.DefaultDraftSettings(),
		Thinking:     thinkingRecommending,
	}
	conv.AppendMessage(entity.MessageIDUserInitial, entity.RoleUser, text)

	if _, err := u.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	ctxzap.Info(ctx, "conversation started", zap.String("conversation_id", conv.ID))
	return conv, nil
}

// ResolveSuggestions performs the Initial step: collaborator call
// framed by the two fixed status lines with a guaranteed minimum
// display time.
func (u *Usecase) ResolveSuggestions(ctx context.Context, id, text string) (*entity.Conversation, error) {
	if _, err := u.setThinking(ctx, id, thinkingRecommending); err != nil {
		return nil, err
	}
	started := time.Now()
	u.sleep(u.flow.InitialFirstDwell)
	if _, err := u.setThinking(ctx, id, thinkingAnalysing); err != nil {
		return nil, err
	}

	content, llmErr := u.llm.Complete(ctx, []entity.ChatMessage{
		{Role: entity.RoleUser, Content: text},
	})

	if remaining := u.flow.InitialMinDwell - time.Since(started); remaining > 0 {
		u.sleep(remaining)
	}

	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.Thinking = ""
		if llmErr != nil {
			ctxzap.Warn(ctx, "collaborator call failed", zap.Error(llmErr))
			c.AppendMessage(entity.MessageIDAssistantError, entity.RoleAssistant, errorMessage)
			return nil
		}

		reply := content
		if reply == "" {
			reply = "..."
		}
		c.AppendMessage(entity.MessageIDAssistantInitial, entity.RoleAssistant, reply)
		c.SuggestedDocs = extract.DocumentSuggestions(content)
		c.Step = entity.StepOutcomes
		return nil
	})
}

// SubmitMessage records a user message and advances the flow according
// to the current step.
func (u *Usecase) SubmitMessage(ctx context.Context, id, text string) (*entity.Conversation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entity.ErrEmptyMessage
	}

	conv, err := u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.AppendSequential(entity.RoleUser, text)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch conv.Step {
	case entity.StepOutcomes:
		u.sleep(u.flow.ReplyDelay)
		return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
			examples := classify.DetailExamples(c.FirstCreateDoc())
			c.AppendMessage(entity.MessageIDDocumentDetails, entity.RoleAssistant, detailsMessage(examples))
			c.Step = entity.StepDetails
			return nil
		})

	case entity.StepDetails:
		u.sleep(u.flow.ReplyDelay)
		if err := u.playThinking(ctx, id, clauseThinkingSteps); err != nil {
			return nil, err
		}
		return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
			clauses := classify.KeyClauses(c.FirstCreateDoc())
			c.AppendMessage(entity.MessageIDKeyClauses, entity.RoleAssistant, clausesMessage(clauses))
			c.Step = entity.StepClauses
			return nil
		})

	case entity.StepClauses:
		u.sleep(u.flow.ReplyDelay)
		return u.advanceToFinalDetails(ctx, id)

	case entity.StepInitial:
		// Start failed earlier; the resubmission retries the
		// suggestion call.
		return u.ResolveSuggestions(ctx, id, text)

	default: // StepComplete: unguided, relayed to the collaborator
		return u.relay(ctx, id, conv)
	}
}

// relay forwards the rolling history to the collaborator and appends
// its reply.
func (u *Usecase) relay(ctx context.Context, id string, conv *entity.Conversation) (*entity.Conversation, error) {
	history := make([]entity.ChatMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		history = append(history, entity.ChatMessage{Role: m.Role, Content: m.Content})
	}

	content, llmErr := u.llm.Complete(ctx, history)

	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if llmErr != nil {
			ctxzap.Warn(ctx, "collaborator call failed", zap.Error(llmErr))
			c.AppendMessage(entity.MessageIDAssistantError, entity.RoleAssistant, errorMessage)
			return nil
		}
		c.AppendSequential(entity.RoleAssistant, content)
		return nil
	})
}

// ConfigureDocuments enters the guided questions for the selected
// documents.
func (u *Usecase) ConfigureDocuments(ctx context.Context, id string) (*entity.Conversation, error) {
	_, err := u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if c.Step != entity.StepOutcomes {
			return fmt.Errorf("%w: configure on step '%s'", entity.ErrWrongStep, c.Step)
		}

		c.RecomputeDerived()
		if len(c.CreateDocs) == 0 {
			c.CreateDocs = append([]string(nil), c.SuggestedDocs...)
		}
		if len(c.CreateDocs) == 0 {
			return entity.ErrNoDocumentsSelected
		}

		c.AppendMessage(entity.MessageIDUserConfigure, entity.RoleUser, configureMessage(len(c.CreateDocs)))
		c.Thinking = thinkingConfiguring
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sleep(u.flow.ConfigureDwell)

	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.Thinking = ""
		c.AppendMessage(entity.MessageIDDocumentPurpose, entity.RoleAssistant, purposeMessage(c.CreateDocs))
		return nil
	})
}

// ContinueToFinalDetails is the explicit Clauses "continue" control.
func (u *Usecase) ContinueToFinalDetails(ctx context.Context, id string) (*entity.Conversation, error) {
	conv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Step != entity.StepClauses {
		return nil, fmt.Errorf("%w: continue on step '%s'", entity.ErrWrongStep, conv.Step)
	}
	return u.advanceToFinalDetails(ctx, id)
}

func (u *Usecase) advanceToFinalDetails(ctx context.Context, id string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.AppendMessage(entity.MessageIDDraftSettings, entity.RoleAssistant, draftSettingsMessage)
		c.Step = entity.StepComplete
		return nil
	})
}

// RunFinalCheck plays the closing review sequence and resolves the
// routing outcome. One selected document routes to its draft view;
// several route to the creating list and the chat resets for the next
// intent.
func (u *Usecase) RunFinalCheck(ctx context.Context, id string) (*entity.Conversation, error) {
	conv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Step != entity.StepComplete {
		return nil, fmt.Errorf("%w: final check on step '%s'", entity.ErrWrongStep, conv.Step)
	}

	if err := u.playThinking(ctx, id, finalCheckThinkingSteps); err != nil {
		return nil, err
	}

	if _, err := u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.AppendMessage(entity.MessageIDFinalConfirmation, entity.RoleAssistant, finalConfirmationMessage)
		return nil
	}); err != nil {
		return nil, err
	}

	u.sleep(u.flow.RedirectDelay)

	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if len(c.CreateDocs) == 1 {
			c.Outcome = entity.Outcome{
				Kind:          entity.OutcomeDraft,
				DocumentTitle: c.FirstCreateDoc(),
			}
			return nil
		}

		docs := append([]string(nil), c.CreateDocs...)
		c.Reset(false)
		c.Outcome = entity.Outcome{
			Kind:      entity.OutcomeCreating,
			Documents: docs,
		}
		return nil
	})
}

// Restart discards the whole conversation state.
func (u *Usecase) Restart(ctx context.Context, id string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.Reset(true)
		return nil
	})
}

// Get returns the current conversation state.
func (u *Usecase) Get(ctx context.Context, id string) (*entity.Conversation, error) {
	return u.repo.GetByID(ctx, id)
}

// playThinking shows each status line for the configured dwell. The
// sequence always runs to completion.
func (u *Usecase) playThinking(ctx context.Context, id string, steps []string) error {
	for _, step := range steps {
		if _, err := u.setThinking(ctx, id, step); err != nil {
			return err
		}
		u.sleep(u.flow.ThinkingStepDwell)
	}
	_, err := u.setThinking(ctx, id, "")
	return err
}

func (u *Usecase) setThinking(ctx context.Context, id, line string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.Thinking = line
		return nil
	})
}
