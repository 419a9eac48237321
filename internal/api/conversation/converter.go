package conversation

import (
	"github.com/genie-legal/intake-backend/internal/entity"
)

func toConversationDTO(c *entity.Conversation) *entity.ConversationDTO {
	messages := make([]entity.MessageDTO, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, entity.MessageDTO{
			ID:      m.ID,
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var outcome *entity.Outcome
	if c.Outcome.Kind != entity.OutcomeNone {
		o := c.Outcome
		outcome = &o
	}

	return &entity.ConversationDTO{
		ID:            c.ID,
		Step:          c.Step,
		Messages:      messages,
		SuggestedDocs: c.SuggestedDocs,
		SelectedDocs:  selectedDocs(c),
		CreateDocs:    c.CreateDocs,
		Templates:     c.Templates,
		BasedOnDocs:   c.BasedOnDocs,
		Settings:      c.Settings,
		GoverningLaw:  c.GoverningLaw,
		Language:      c.Language,
		Thinking:      c.Thinking,
		Outcome:       outcome,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// selectedDocs lists the switched-on documents in suggestion order,
// followed by manual additions in selection order.
func selectedDocs(c *entity.Conversation) []string {
	var out []string
	for _, name := range c.SuggestedDocs {
		if c.SelectedDocs[name] {
			out = append(out, name)
		}
	}
	for _, name := range c.ExtraDocs {
		if c.SelectedDocs[name] {
			out = append(out, name)
		}
	}
	return out
}
