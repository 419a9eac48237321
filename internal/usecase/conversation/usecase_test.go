package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/genie-legal/intake-backend/internal/config"
	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suggestionReply = `To hire your first employee, you'll typically need the below documents.
Select any you'd like to create now, you can always add them later. You can also upload your own documents to base these on:
1. Offer Letter
2. Employment Agreement
3. NDA`

type stubCollaborator struct {
	reply string
	err   error
	calls [][]entity.ChatMessage
}

func (s *stubCollaborator) Complete(_ context.Context, messages []entity.ChatMessage) (string, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestUsecase(llm Collaborator) (*Usecase, *repository.ConversationCache) {
	repo := repository.NewConversationCache(time.Hour, time.Hour)
	u := NewUsecase(repo, llm, config.FlowConfig{})
	u.sleep = func(time.Duration) {}
	return u, repo
}

func selectDocs(t *testing.T, repo *repository.ConversationCache, id string, docs ...string) {
	t.Helper()
	_, err := repo.Update(context.Background(), id, func(c *entity.Conversation) error {
		for _, doc := range docs {
			c.SelectedDocs[doc] = true
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStartSuggestsDocuments(t *testing.T) {
	llm := &stubCollaborator{reply: suggestionReply}
	u, _ := newTestUsecase(llm)

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)

	assert.Equal(t, entity.StepOutcomes, conv.Step)
	assert.Equal(t, []string{"Offer Letter", "Employment Agreement", "NDA"}, conv.SuggestedDocs)
	assert.Empty(t, conv.Thinking)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, entity.MessageIDUserInitial, conv.Messages[0].ID)
	assert.Equal(t, entity.MessageIDAssistantInitial, conv.Messages[1].ID)
	assert.Equal(t, suggestionReply, conv.Messages[1].Content)

	require.Len(t, llm.calls, 1)
	require.Len(t, llm.calls[0], 1)
	assert.Equal(t, entity.RoleUser, llm.calls[0][0].Role)
}

func TestStartEmptyMessage(t *testing.T) {
	u, _ := newTestUsecase(&stubCollaborator{})

	_, err := u.Start(context.Background(), "   ")

	assert.ErrorIs(t, err, entity.ErrEmptyMessage)
}

func TestStartCollaboratorFailure(t *testing.T) {
	llm := &stubCollaborator{err: errors.New("upstream down")}
	u, _ := newTestUsecase(llm)

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)

	assert.Equal(t, entity.StepInitial, conv.Step)
	assert.Empty(t, conv.SuggestedDocs)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, entity.MessageIDAssistantError, conv.Messages[1].ID)
	assert.Equal(t, "There was an error. Please try again.", conv.Messages[1].Content)
}

func TestSubmitMessageRetriesAfterFailedStart(t *testing.T) {
	llm := &stubCollaborator{err: errors.New("upstream down")}
	u, _ := newTestUsecase(llm)

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)
	require.Equal(t, entity.StepInitial, conv.Step)

	llm.err = nil
	llm.reply = suggestionReply

	conv, err = u.SubmitMessage(context.Background(), conv.ID, "try again please")
	require.NoError(t, err)

	assert.Equal(t, entity.StepOutcomes, conv.Step)
	assert.Equal(t, []string{"Offer Letter", "Employment Agreement", "NDA"}, conv.SuggestedDocs)
}

func TestConfigureSingleDocument(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)
	selectDocs(t, repo, conv.ID, "Offer Letter")

	conv, err = u.ConfigureDocuments(context.Background(), conv.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StepOutcomes, conv.Step)
	assert.Equal(t, []string{"Offer Letter"}, conv.CreateDocs)
	assert.Equal(t, []string{"Company context", "Playbook"}, conv.BasedOnDocs)

	configure := conv.FindMessage(entity.MessageIDUserConfigure)
	require.NotNil(t, configure)
	assert.Equal(t, "Configure my document", configure.Content)

	purpose := conv.FindMessage(entity.MessageIDDocumentPurpose)
	require.NotNil(t, purpose)
	assert.Contains(t, purpose.Content, "**Document purpose:**")
	assert.NotContains(t, purpose.Content, "focus on")
}

func TestConfigureMultipleDocuments(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)
	selectDocs(t, repo, conv.ID, "Offer Letter", "NDA")

	conv, err = u.ConfigureDocuments(context.Background(), conv.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Offer Letter", "NDA"}, conv.CreateDocs)

	configure := conv.FindMessage(entity.MessageIDUserConfigure)
	require.NotNil(t, configure)
	assert.Equal(t, "Configure my documents", configure.Content)

	purpose := conv.FindMessage(entity.MessageIDDocumentPurpose)
	require.NotNil(t, purpose)
	assert.Contains(t, purpose.Content, "first let's focus on Offer Letter")
}

func TestConfigureWithoutSelectionUsesSuggestions(t *testing.T) {
	u, _ := newTestUsecase(&stubCollaborator{reply: suggestionReply})

	conv, err := u.Start(context.Background(), "I want to hire a salesperson")
	require.NoError(t, err)

	conv, err = u.ConfigureDocuments(context.Background(), conv.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Offer Letter", "Employment Agreement", "NDA"}, conv.CreateDocs)
}

func TestConfigureWrongStep(t *testing.T) {
	llm := &stubCollaborator{err: errors.New("upstream down")}
	u, _ := newTestUsecase(llm)

	conv, err := u.Start(context.Background(), "hire someone")
	require.NoError(t, err)
	require.Equal(t, entity.StepInitial, conv.Step)

	_, err = u.ConfigureDocuments(context.Background(), conv.ID)

	assert.ErrorIs(t, err, entity.ErrWrongStep)
}

func TestGuidedFlowToDraft(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})
	ctx := context.Background()

	conv, err := u.Start(ctx, "I want to hire a salesperson")
	require.NoError(t, err)
	id := conv.ID
	selectDocs(t, repo, id, "Offer Letter")

	_, err = u.ConfigureDocuments(ctx, id)
	require.NoError(t, err)

	// Outcomes answer synthesizes the details question.
	conv, err = u.SubmitMessage(ctx, id, "Close the hire quickly and protect our IP")
	require.NoError(t, err)
	assert.Equal(t, entity.StepDetails, conv.Step)
	details := conv.FindMessage(entity.MessageIDDocumentDetails)
	require.NotNil(t, details)
	assert.Contains(t, details.Content, "**Document details:**")
	assert.Contains(t, details.Content, "What's the compensation package (salary, benefits, equity, bonuses)?")
	assert.Contains(t, details.Content, "Which risks are most important to protect against?")

	// Details answer plays the thinking sequence, then the clauses.
	conv, err = u.SubmitMessage(ctx, id, "Salary 80k, remote, 3 month probation")
	require.NoError(t, err)
	assert.Equal(t, entity.StepClauses, conv.Step)
	assert.Empty(t, conv.Thinking)
	clauses := conv.FindMessage(entity.MessageIDKeyClauses)
	require.NotNil(t, clauses)
	assert.Contains(t, clauses.Content, "**Key clauses:**")
	assert.Contains(t, clauses.Content, "1. Termination and notice periods")
	assert.Contains(t, clauses.Content, "6. Benefits and compensation adjustments")

	// All recommended clauses are ticked until untoggled.
	for i := 0; i < 6; i++ {
		assert.True(t, conv.ClauseVisible("Offer Letter", i))
	}

	conv, err = u.ContinueToFinalDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.StepComplete, conv.Step)
	settings := conv.FindMessage(entity.MessageIDDraftSettings)
	require.NotNil(t, settings)
	assert.Equal(t, "Last thing before we get your 1st draft ready.", settings.Content)

	conv, err = u.RunFinalCheck(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeDraft, conv.Outcome.Kind)
	assert.Equal(t, "Offer Letter", conv.Outcome.DocumentTitle)
	confirmation := conv.FindMessage(entity.MessageIDFinalConfirmation)
	require.NotNil(t, confirmation)
}

func TestClausesTextSubmissionAdvances(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})
	ctx := context.Background()

	conv, err := u.Start(ctx, "I want to hire a salesperson")
	require.NoError(t, err)
	id := conv.ID
	selectDocs(t, repo, id, "NDA")

	_, err = u.ConfigureDocuments(ctx, id)
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "protect our secrets")
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "two year term")
	require.NoError(t, err)

	conv, err = u.SubmitMessage(ctx, id, "looks good")
	require.NoError(t, err)

	assert.Equal(t, entity.StepComplete, conv.Step)
	assert.NotNil(t, conv.FindMessage(entity.MessageIDDraftSettings))
}

func TestRunFinalCheckMultipleDocumentsResets(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})
	ctx := context.Background()

	conv, err := u.Start(ctx, "I want to hire a salesperson")
	require.NoError(t, err)
	id := conv.ID
	selectDocs(t, repo, id, "Offer Letter", "NDA")

	_, err = u.ConfigureDocuments(ctx, id)
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "outcomes")
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "details")
	require.NoError(t, err)
	_, err = u.ContinueToFinalDetails(ctx, id)
	require.NoError(t, err)

	conv, err = u.RunFinalCheck(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeCreating, conv.Outcome.Kind)
	assert.Equal(t, []string{"Offer Letter", "NDA"}, conv.Outcome.Documents)
	assert.Equal(t, entity.StepInitial, conv.Step)
	assert.Empty(t, conv.Messages)
	assert.Empty(t, conv.CreateDocs)
}

func TestRunFinalCheckWrongStep(t *testing.T) {
	u, _ := newTestUsecase(&stubCollaborator{reply: suggestionReply})

	conv, err := u.Start(context.Background(), "hire someone")
	require.NoError(t, err)

	_, err = u.RunFinalCheck(context.Background(), conv.ID)

	assert.ErrorIs(t, err, entity.ErrWrongStep)
}

func TestCompleteStepRelaysToCollaborator(t *testing.T) {
	llm := &stubCollaborator{reply: suggestionReply}
	u, repo := newTestUsecase(llm)
	ctx := context.Background()

	conv, err := u.Start(ctx, "I want to hire a salesperson")
	require.NoError(t, err)
	id := conv.ID
	selectDocs(t, repo, id, "NDA")

	_, err = u.ConfigureDocuments(ctx, id)
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "outcomes")
	require.NoError(t, err)
	_, err = u.SubmitMessage(ctx, id, "details")
	require.NoError(t, err)
	_, err = u.ContinueToFinalDetails(ctx, id)
	require.NoError(t, err)

	llm.reply = "Happy to help with that."
	callsBefore := len(llm.calls)

	conv, err = u.SubmitMessage(ctx, id, "can I change the governing law later?")
	require.NoError(t, err)

	require.Len(t, llm.calls, callsBefore+1)
	last := conv.Messages[len(conv.Messages)-1]
	assert.Equal(t, entity.RoleAssistant, last.Role)
	assert.Equal(t, "Happy to help with that.", last.Content)
	assert.Equal(t, entity.StepComplete, conv.Step)
}

func TestRestart(t *testing.T) {
	u, repo := newTestUsecase(&stubCollaborator{reply: suggestionReply})
	ctx := context.Background()

	conv, err := u.Start(ctx, "I want to hire a salesperson")
	require.NoError(t, err)
	id := conv.ID
	selectDocs(t, repo, id, "NDA")
	_, err = u.ConfigureDocuments(ctx, id)
	require.NoError(t, err)

	conv, err = u.Restart(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, entity.StepInitial, conv.Step)
	assert.Empty(t, conv.Messages)
	assert.Empty(t, conv.SuggestedDocs)
	assert.Equal(t, entity.OutcomeNone, conv.Outcome.Kind)
	assert.Equal(t, entity.DefaultDraftSettings(), conv.Settings)
}

func TestGetUnknownConversation(t *testing.T) {
	u, _ := newTestUsecase(&stubCollaborator{})

	_, err := u.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}
