package entity

import "time"

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type StartConversationRequest struct {
	Message string `json:"message"`
}

type SubmitMessageRequest struct {
	Message string `json:"message"`
}

type ToggleDocumentRequest struct {
	Document string `json:"document"`
	Selected bool   `json:"selected"`
}

type SelectTemplateRequest struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
	Usage    string `json:"usage,omitempty"`
}

type ClauseVisibilityRequest struct {
	Document string `json:"document"`
	Index    int    `json:"index"`
	Visible  bool   `json:"visible"`
}

type ClauseDetailRequest struct {
	Document string `json:"document"`
	Index    int    `json:"index"`
	Details  string `json:"details"`
}

type CustomClauseRequest struct {
	Document string `json:"document"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Details  string `json:"details,omitempty"`
}

type SliderRequest struct {
	Value int `json:"value"`
}

type GoverningLawRequest struct {
	GoverningLaw string `json:"governing_law"`
}

type LanguageRequest struct {
	Language string `json:"language"`
}

type MessageDTO struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ConversationDTO struct {
	ID            string              `json:"conversation_id"`
	Step          Step                `json:"step"`
	Messages      []MessageDTO        `json:"messages"`
	SuggestedDocs []string            `json:"suggested_docs,omitempty"`
	SelectedDocs  []string            `json:"selected_docs,omitempty"`
	CreateDocs    []string            `json:"create_docs,omitempty"`
	Templates     []TemplateSelection `json:"templates,omitempty"`
	BasedOnDocs   []string            `json:"based_on_docs,omitempty"`
	Settings      DraftSettings       `json:"settings"`
	GoverningLaw  string              `json:"governing_law,omitempty"`
	Language      string              `json:"language,omitempty"`
	Thinking      string              `json:"thinking,omitempty"`
	Outcome       *Outcome            `json:"outcome,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
