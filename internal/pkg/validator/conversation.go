package validator

import (
	"fmt"
	"strings"

	"github.com/genie-legal/intake-backend/internal/entity"
)

// Validator validates API request bodies before they reach a usecase.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateChat validates the LLM passthrough request
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages", entity.ErrMissingField)
	}

	for i, msg := range req.Messages {
		switch msg.Role {
		case entity.RoleUser, entity.RoleAssistant, entity.RoleSystem:
		default:
			return fmt.Errorf("%w: messages[%d].role '%s'", entity.ErrInvalidParameter, i, msg.Role)
		}
	}

	return nil
}

// ValidateStartConversation validates the opening user message
func (v *Validator) ValidateStartConversation(req *entity.StartConversationRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	return nil
}

// ValidateSubmitMessage validates a mid-flow user message
func (v *Validator) ValidateSubmitMessage(req *entity.SubmitMessageRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	return nil
}

// ValidateToggleDocument validates a document selection change
func (v *Validator) ValidateToggleDocument(req *entity.ToggleDocumentRequest) error {
	if strings.TrimSpace(req.Document) == "" {
		return fmt.Errorf("%w: document", entity.ErrMissingField)
	}
	return nil
}

// ValidateSelectTemplate validates a template selection change
func (v *Validator) ValidateSelectTemplate(req *entity.SelectTemplateRequest) error {
	if strings.TrimSpace(req.Label) == "" {
		return fmt.Errorf("%w: label", entity.ErrMissingField)
	}
	return nil
}

// ValidateClauseRef validates the document/index pair addressing a clause
func (v *Validator) ValidateClauseRef(document string, index int) error {
	if strings.TrimSpace(document) == "" {
		return fmt.Errorf("%w: document", entity.ErrMissingField)
	}
	if index < 0 {
		return fmt.Errorf("%w: index %d", entity.ErrInvalidParameter, index)
	}
	return nil
}

// ValidateCustomClause validates a custom clause create/update. Name
// starts empty and is filled in later, so only the owning document is
// required.
func (v *Validator) ValidateCustomClause(req *entity.CustomClauseRequest) error {
	if strings.TrimSpace(req.Document) == "" {
		return fmt.Errorf("%w: document", entity.ErrMissingField)
	}
	return nil
}
