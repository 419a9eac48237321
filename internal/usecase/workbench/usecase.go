// Package workbench mutates the document configuration gathered by the
// intake dialogue: which documents to create, which existing documents
// to base them on, clause selections and the draft settings.
package workbench

import (
	"context"
	"fmt"

	"github.com/genie-legal/intake-backend/internal/entity"
	"github.com/genie-legal/intake-backend/internal/pkg/formatter"
	"github.com/genie-legal/intake-backend/internal/repository"
	"github.com/google/uuid"
)

type Usecase struct {
	repo       repository.ConversationRepository
	formatters *formatter.Factory
}

func NewUsecase(repo repository.ConversationRepository, formatters *formatter.Factory) *Usecase {
	return &Usecase{
		repo:       repo,
		formatters: formatters,
	}
}

// ToggleDocument sets the selection flag for a document and rebuilds
// the create list. Names outside the suggested list are allowed; they
// join the create list in selection order.
func (u *Usecase) ToggleDocument(ctx context.Context, id, document string, selected bool) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if c.SelectedDocs == nil {
			c.SelectedDocs = map[string]bool{}
		}
		c.SelectedDocs[document] = selected

		if selected && !contains(c.SuggestedDocs, document) && !contains(c.ExtraDocs, document) {
			c.ExtraDocs = append(c.ExtraDocs, document)
		}

		c.RecomputeDerived()
		return nil
	})
}

// SelectTemplate marks an existing document for reuse as a drafting
// base, or withdraws it.
func (u *Usecase) SelectTemplate(ctx context.Context, id, label string, selected bool, usage string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		idx := templateIndexByLabel(c.Templates, label)

		if !selected {
			if idx >= 0 {
				c.Templates = append(c.Templates[:idx], c.Templates[idx+1:]...)
			}
			c.RecomputeDerived()
			return nil
		}

		if idx >= 0 {
			if usage != "" {
				c.Templates[idx].Usage = usage
			}
		} else {
			c.Templates = append(c.Templates, entity.TemplateSelection{
				ID:    uuid.NewString(),
				Label: label,
				Usage: usage,
			})
		}
		c.RecomputeDerived()
		return nil
	})
}

// SetTemplateUsage records how a selected template should be used.
func (u *Usecase) SetTemplateUsage(ctx context.Context, id, templateID, usage string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		for i := range c.Templates {
			if c.Templates[i].ID == templateID {
				c.Templates[i].Usage = usage
				return nil
			}
		}
		return fmt.Errorf("%w: template '%s'", entity.ErrClauseNotFound, templateID)
	})
}

// SetClauseVisible includes or excludes a recommended standard clause.
func (u *Usecase) SetClauseVisible(ctx context.Context, id, document string, index int, visible bool) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if c.ClauseVisibility == nil {
			c.ClauseVisibility = map[string]bool{}
		}
		c.ClauseVisibility[entity.ClauseKey(document, index)] = visible
		return nil
	})
}

// SetClauseDetail stores free-text drafting instructions for one
// standard clause.
func (u *Usecase) SetClauseDetail(ctx context.Context, id, document string, index int, details string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if c.ClauseDetails == nil {
			c.ClauseDetails = map[string]string{}
		}
		c.ClauseDetails[entity.ClauseKey(document, index)] = details
		return nil
	})
}

// AddCustomClause appends a user-authored clause to a document. Name
// and details may start empty and be filled in afterwards.
func (u *Usecase) AddCustomClause(ctx context.Context, id, document, name, details string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		if c.CustomClauses == nil {
			c.CustomClauses = map[string][]entity.CustomClause{}
		}
		c.CustomClauses[document] = append(c.CustomClauses[document], entity.CustomClause{
			ID:      uuid.NewString(),
			Name:    name,
			Details: details,
		})
		return nil
	})
}

// UpdateCustomClause changes the name and details of a custom clause.
func (u *Usecase) UpdateCustomClause(ctx context.Context, id, document, clauseID, name, details string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		clauses := c.CustomClauses[document]
		for i := range clauses {
			if clauses[i].ID == clauseID {
				clauses[i].Name = name
				clauses[i].Details = details
				return nil
			}
		}
		return fmt.Errorf("%w: custom clause '%s'", entity.ErrClauseNotFound, clauseID)
	})
}

// RemoveCustomClause deletes a custom clause; removing an unknown ID is
// a no-op.
func (u *Usecase) RemoveCustomClause(ctx context.Context, id, document, clauseID string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		clauses := c.CustomClauses[document]
		for i := range clauses {
			if clauses[i].ID == clauseID {
				c.CustomClauses[document] = append(clauses[:i], clauses[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// SetSlider stores a draft-setting slider value, clamped to its range.
func (u *Usecase) SetSlider(ctx context.Context, id string, slider entity.SliderName, value int) (*entity.Conversation, error) {
	if err := slider.Validate(); err != nil {
		return nil, err
	}

	if value < entity.SliderMin {
		value = entity.SliderMin
	}
	if value > entity.SliderMax {
		value = entity.SliderMax
	}

	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		switch slider {
		case entity.SliderLength:
			c.Settings.Length = value
		case entity.SliderFavourability:
			c.Settings.Favourability = value
		case entity.SliderTone:
			c.Settings.Tone = value
		}
		return nil
	})
}

// SetGoverningLaw records the governing law choice.
func (u *Usecase) SetGoverningLaw(ctx context.Context, id, law string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.GoverningLaw = law
		return nil
	})
}

// SetLanguage records the drafting language choice.
func (u *Usecase) SetLanguage(ctx context.Context, id, language string) (*entity.Conversation, error) {
	return u.repo.Update(ctx, id, func(c *entity.Conversation) error {
		c.Language = language
		return nil
	})
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func templateIndexByLabel(templates []entity.TemplateSelection, label string) int {
	for i := range templates {
		if templates[i].Label == label {
			return i
		}
	}
	return -1
}
