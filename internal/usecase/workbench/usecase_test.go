package workbench

import (
	"context"
	"testing"
	"time"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/pkg/formatter"
	"github.com/genie-legal/intake-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsecase(t *testing.T) (*Usecase, string) {
	t.Helper()
	repo := repository.NewConversationCache(time.Hour, time.Hour)
	_, err := repo.Create(context.Background(), &entity.Conversation{
		ID:            "c1",
		Step:          entity.StepOutcomes,
		SuggestedDocs: []string{"Offer Letter", "Employment Agreement", "NDA"},
		SelectedDocs:  map[string]bool{},
		Settings:      entity.DefaultDraftSettings(),
	})
	require.NoError(t, err)
	return NewUsecase(repo, formatter.NewFactory()), "c1"
}

func TestToggleDocumentKeepsSuggestionOrder(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	_, err := u.ToggleDocument(ctx, id, "NDA", true)
	require.NoError(t, err)
	conv, err := u.ToggleDocument(ctx, id, "Offer Letter", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Offer Letter", "NDA"}, conv.CreateDocs)
}

func TestToggleDocumentOff(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	_, err := u.ToggleDocument(ctx, id, "NDA", true)
	require.NoError(t, err)
	conv, err := u.ToggleDocument(ctx, id, "NDA", false)
	require.NoError(t, err)

	assert.Empty(t, conv.CreateDocs)
}

func TestToggleUnknownDocumentJoinsCreateList(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	_, err := u.ToggleDocument(ctx, id, "Consulting Agreement", true)
	require.NoError(t, err)
	conv, err := u.ToggleDocument(ctx, id, "NDA", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"NDA", "Consulting Agreement"}, conv.CreateDocs)
}

func TestSelectTemplateExtendsBasedOn(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.SelectTemplate(ctx, id, "Document title 1", true, "Stay as close to it as possible")
	require.NoError(t, err)

	assert.Equal(t, []string{"Company context", "Playbook", "Document title 1"}, conv.BasedOnDocs)
	require.Len(t, conv.Templates, 1)
	assert.Equal(t, "Stay as close to it as possible", conv.Templates[0].Usage)

	conv, err = u.SelectTemplate(ctx, id, "Document title 1", false, "")
	require.NoError(t, err)
	assert.Empty(t, conv.Templates)
	assert.Equal(t, []string{"Company context", "Playbook"}, conv.BasedOnDocs)
}

func TestSetTemplateUsage(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.SelectTemplate(ctx, id, "Document title 2", true, "")
	require.NoError(t, err)
	templateID := conv.Templates[0].ID

	conv, err = u.SetTemplateUsage(ctx, id, templateID, "reuse clause 7")
	require.NoError(t, err)
	assert.Equal(t, "reuse clause 7", conv.Templates[0].Usage)

	_, err = u.SetTemplateUsage(ctx, id, "unknown", "note")
	assert.ErrorIs(t, err, entity.ErrClauseNotFound)
}

func TestClauseVisibilityDefaultsToVisible(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.ToggleDocument(ctx, id, "NDA", true)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.True(t, conv.ClauseVisible("NDA", i))
	}

	conv, err = u.SetClauseVisible(ctx, id, "NDA", 1, false)
	require.NoError(t, err)
	assert.True(t, conv.ClauseVisible("NDA", 0))
	assert.False(t, conv.ClauseVisible("NDA", 1))
}

func TestSetClauseDetail(t *testing.T) {
	u, id := newTestUsecase(t)

	conv, err := u.SetClauseDetail(context.Background(), id, "NDA", 0, "Carve out public information")
	require.NoError(t, err)

	assert.Equal(t, "Carve out public information", conv.ClauseDetails[entity.ClauseKey("NDA", 0)])
}

func TestCustomClauseLifecycle(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.AddCustomClause(ctx, id, "NDA", "", "")
	require.NoError(t, err)
	require.Len(t, conv.CustomClauses["NDA"], 1)
	clauseID := conv.CustomClauses["NDA"][0].ID

	conv, err = u.UpdateCustomClause(ctx, id, "NDA", clauseID, "Source code escrow", "Quarterly deposits")
	require.NoError(t, err)
	assert.Equal(t, "Source code escrow", conv.CustomClauses["NDA"][0].Name)
	assert.Equal(t, "Quarterly deposits", conv.CustomClauses["NDA"][0].Details)

	_, err = u.UpdateCustomClause(ctx, id, "NDA", "unknown", "x", "y")
	assert.ErrorIs(t, err, entity.ErrClauseNotFound)

	conv, err = u.RemoveCustomClause(ctx, id, "NDA", clauseID)
	require.NoError(t, err)
	assert.Empty(t, conv.CustomClauses["NDA"])

	// Removing an unknown ID is a no-op.
	_, err = u.RemoveCustomClause(ctx, id, "NDA", clauseID)
	assert.NoError(t, err)
}

func TestSetSliderClamps(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.SetSlider(ctx, id, entity.SliderLength, 150)
	require.NoError(t, err)
	assert.Equal(t, 100, conv.Settings.Length)

	conv, err = u.SetSlider(ctx, id, entity.SliderLength, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, conv.Settings.Length)

	conv, err = u.SetSlider(ctx, id, entity.SliderTone, 70)
	require.NoError(t, err)
	assert.Equal(t, 70, conv.Settings.Tone)
	assert.Equal(t, 50, conv.Settings.Favourability)
}

func TestSetSliderUnknownName(t *testing.T) {
	u, id := newTestUsecase(t)

	_, err := u.SetSlider(context.Background(), id, "weight", 10)

	assert.ErrorIs(t, err, entity.ErrUnknownSlider)
}

func TestSetGoverningLawAndLanguage(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	conv, err := u.SetGoverningLaw(ctx, id, "England and Wales")
	require.NoError(t, err)
	assert.Equal(t, "England and Wales", conv.GoverningLaw)

	conv, err = u.SetLanguage(ctx, id, "English")
	require.NoError(t, err)
	assert.Equal(t, "English", conv.Language)
}

func TestExportBriefMarkdown(t *testing.T) {
	u, id := newTestUsecase(t)
	ctx := context.Background()

	_, err := u.ToggleDocument(ctx, id, "NDA", true)
	require.NoError(t, err)
	_, err = u.SetClauseVisible(ctx, id, "NDA", 1, false)
	require.NoError(t, err)
	_, err = u.SetClauseDetail(ctx, id, "NDA", 0, "Carve out public information")
	require.NoError(t, err)
	_, err = u.SetGoverningLaw(ctx, id, "England and Wales")
	require.NoError(t, err)

	export, err := u.ExportBrief(ctx, id, entity.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "text/markdown; charset=utf-8", export.ContentType)
	assert.Equal(t, "nda-draft-brief.md", export.Filename)

	brief := string(export.Data)
	assert.Contains(t, brief, "# NDA draft brief")
	assert.Contains(t, brief, "[x] Definition of confidential information")
	assert.Contains(t, brief, "Carve out public information")
	assert.Contains(t, brief, "[ ] Permitted uses and exceptions")
	assert.Contains(t, brief, "Governing law: England and Wales")
}

func TestExportBriefUnknownFormat(t *testing.T) {
	u, id := newTestUsecase(t)

	_, err := u.ExportBrief(context.Background(), id, "rtf")

	assert.Error(t, err)
}
