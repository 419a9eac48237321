package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/genie-legal/intake-backend/internal/config"
	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/pkg/formatter"
	"github.com/genie-legal/intake-backend/internal/pkg/validator"
	"github.com/genie-legal/intake-backend/internal/repository"
	convusecase "github.com/genie-legal/intake-backend/internal/usecase/conversation"
	"github.com/genie-legal/intake-backend/internal/usecase/workbench"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suggestionReply = "Here are the documents I recommend:\n" +
	"1. Offer Letter\n" +
	"2. Employment Agreement\n" +
	"3. NDA\n" +
	"Do you want me to prepare them?"

type stubCollaborator struct {
	reply string
	err   error
}

func (s *stubCollaborator) Complete(context.Context, []entity.ChatMessage) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	router http.Handler
	repo   repository.ConversationRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := repository.NewConversationCache(time.Hour, time.Hour)
	llm := &stubCollaborator{reply: suggestionReply}
	conv := convusecase.NewUsecase(repo, llm, config.FlowConfig{})
	wb := workbench.NewUsecase(repo, formatter.NewFactory())
	h := NewHandler(conv, wb, validator.New())

	r := chi.NewRouter()
	RegisterRoutes(r, h)

	return &testServer{router: r, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeDTO(t *testing.T, rec *httptest.ResponseRecorder) entity.ConversationDTO {
	t.Helper()
	var dto entity.ConversationDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

// waitForStep polls the repository until the background transition lands.
func (s *testServer) waitForStep(t *testing.T, id string, step entity.Step) {
	t.Helper()
	require.Eventually(t, func() bool {
		conv, err := s.repo.GetByID(context.Background(), id)
		return err == nil && conv.Step == step
	}, 2*time.Second, 5*time.Millisecond)
}

// startAtOutcomes starts a conversation and waits for the suggestion
// phase to finish.
func (s *testServer) startAtOutcomes(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/conversation", `{"message":"I am hiring an employee"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decodeDTO(t, rec)
	s.waitForStep(t, dto.ID, entity.StepOutcomes)
	return dto.ID
}

func TestStartConversationReturnsThinkingState(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/conversation", `{"message":"I am hiring an employee"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decodeDTO(t, rec)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, entity.StepInitial, dto.Step)
	require.Len(t, dto.Messages, 1)
	assert.Equal(t, "user-initial", dto.Messages[0].ID)

	s.waitForStep(t, dto.ID, entity.StepOutcomes)

	rec = s.do(t, http.MethodGet, "/conversation/"+dto.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decodeDTO(t, rec)
	assert.Equal(t, []string{"Offer Letter", "Employment Agreement", "NDA"}, dto.SuggestedDocs)
	assert.Empty(t, dto.Thinking)
}

func TestStartConversationValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/conversation", `{"message":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConversationNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/conversation/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp entity.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusText(http.StatusNotFound), resp.Error)
}

func TestSubmitMessageAccepted(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/message", `{"message":"Protect our IP"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	s.waitForStep(t, id, entity.StepDetails)
}

func TestSubmitMessageUnknownConversation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/conversation/unknown/message", `{"message":"hello"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigureWrongStep(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/conversation", `{"message":"I am hiring"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeDTO(t, rec).ID
	s.waitForStep(t, id, entity.StepOutcomes)
	s.do(t, http.MethodPost, "/conversation/"+id+"/restart", "")

	rec = s.do(t, http.MethodPost, "/conversation/"+id+"/configure", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGuidedFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/documents/toggle",
		`{"document":"Offer Letter","selected":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec)
	assert.Equal(t, []string{"Offer Letter"}, dto.CreateDocs)

	rec = s.do(t, http.MethodPost, "/conversation/"+id+"/configure", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool {
		conv, err := s.repo.GetByID(context.Background(), id)
		return err == nil && conv.FindMessage(entity.MessageIDDocumentPurpose) != nil
	}, 2*time.Second, 5*time.Millisecond)

	s.do(t, http.MethodPost, "/conversation/"+id+"/message", `{"message":"Senior engineer role"}`)
	s.waitForStep(t, id, entity.StepDetails)

	s.do(t, http.MethodPost, "/conversation/"+id+"/message", `{"message":"Include equity"}`)
	s.waitForStep(t, id, entity.StepClauses)

	rec = s.do(t, http.MethodPost, "/conversation/"+id+"/continue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StepComplete, decodeDTO(t, rec).Step)

	rec = s.do(t, http.MethodPost, "/conversation/"+id+"/final-check", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Eventually(t, func() bool {
		conv, err := s.repo.GetByID(context.Background(), id)
		return err == nil && conv.Outcome.Kind == entity.OutcomeDraft
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFinalCheckWrongStep(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/final-check", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkbenchRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/templates/select",
		`{"label":"Document title 1","selected":true,"usage":"Stay close"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec)
	assert.Contains(t, dto.BasedOnDocs, "Document title 1")

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/clauses/visibility",
		`{"document":"NDA","index":1,"visible":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/clauses/detail",
		`{"document":"NDA","index":0,"details":"Carve out public information"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/conversation/"+id+"/clauses/custom", `{"document":"NDA"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	conv, err := s.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, conv.CustomClauses["NDA"], 1)
	clauseID := conv.CustomClauses["NDA"][0].ID

	rec = s.do(t, http.MethodPatch, "/conversation/"+id+"/clauses/custom/"+clauseID,
		`{"document":"NDA","name":"Escrow","details":"Quarterly deposits"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete,
		fmt.Sprintf("/conversation/%s/clauses/custom/%s?document=NDA", id, clauseID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/settings/length", `{"value":80}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 80, decodeDTO(t, rec).Settings.Length)

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/settings/weight", `{"value":80}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/law", `{"governing_law":"England and Wales"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "England and Wales", decodeDTO(t, rec).GoverningLaw)

	rec = s.do(t, http.MethodPut, "/conversation/"+id+"/language", `{"language":"English"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExportBrief(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/documents/toggle",
		`{"document":"NDA","selected":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/conversation/"+id+"/export?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "nda-draft-brief.md")
	assert.Contains(t, rec.Body.String(), "# NDA draft brief")

	rec = s.do(t, http.MethodGet, "/conversation/"+id+"/export?format=rtf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRestartClearsState(t *testing.T) {
	s := newTestServer(t)
	id := s.startAtOutcomes(t)

	rec := s.do(t, http.MethodPost, "/conversation/"+id+"/restart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeDTO(t, rec)
	assert.Equal(t, entity.StepInitial, dto.Step)
	assert.Empty(t, dto.Messages)
	assert.Nil(t, dto.Outcome)
}
