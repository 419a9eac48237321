package entity

import (
	"fmt"
	"time"
)

type Step string

// Step represents where the guided intake dialogue currently is.
// Transitions are strictly forward; only a restart returns to StepInitial.
const (
	StepInitial  Step = "INITIAL"  // Awaiting the user's first statement of intent
	StepOutcomes Step = "OUTCOMES" // Awaiting the answer to the document-purpose question
	StepDetails  Step = "DETAILS"  // Awaiting specifics to include in the document
	StepClauses  Step = "CLAUSES"  // Awaiting confirmation/adjustment of key clauses
	StepComplete Step = "COMPLETE" // Only slider adjustment and final confirmation remain
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Well-known message IDs. Each identifies one logical message in the
// intake dialogue so later logic can find and update it in place
// instead of always appending.
const (
	MessageIDUserInitial       = "user-initial"
	MessageIDAssistantInitial  = "assistant-initial"
	MessageIDAssistantError    = "assistant-error"
	MessageIDUserConfigure     = "user-configure"
	MessageIDDocumentPurpose   = "assistant-document-purpose"
	MessageIDDocumentDetails   = "assistant-document-details"
	MessageIDKeyClauses        = "assistant-key-clauses"
	MessageIDDraftSettings     = "assistant-draft-settings"
	MessageIDFinalConfirmation = "assistant-final-confirmation"

	MessageIDUserPrefix      = "user-msg-"
	MessageIDAssistantPrefix = "assistant-msg-"
)

// SequentialMessageID builds an ID for a dynamic message from the
// per-conversation counter.
func SequentialMessageID(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// Message is one entry in the append-only conversation log.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SliderName string

const (
	SliderLength        SliderName = "length"
	SliderFavourability SliderName = "favourability"
	SliderTone          SliderName = "tone"
)

func (s SliderName) Validate() error {
	switch s {
	case SliderLength, SliderFavourability, SliderTone:
		return nil
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownSlider, s)
	}
}

const (
	SliderMin     = 0
	SliderMax     = 100
	SliderDefault = 50
)

// DraftSettings holds the three independent style sliders, each in [0,100].
type DraftSettings struct {
	Length        int `json:"length"`
	Favourability int `json:"favourability"`
	Tone          int `json:"tone"`
}

func DefaultDraftSettings() DraftSettings {
	return DraftSettings{
		Length:        SliderDefault,
		Favourability: SliderDefault,
		Tone:          SliderDefault,
	}
}

// CustomClause is a user-authored clause owned by one document name.
type CustomClause struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// TemplateSelection marks an existing document the user wants reused as
// a drafting base, with an optional free-text usage note.
type TemplateSelection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Usage string `json:"usage,omitempty"`
}

type OutcomeKind string

const (
	OutcomeNone     OutcomeKind = ""         // Final check not run yet
	OutcomeDraft    OutcomeKind = "DRAFT"    // Single document: route to the draft view
	OutcomeCreating OutcomeKind = "CREATING" // Multiple documents: route to the creating list
)

// Outcome is the routing result of the final check.
type Outcome struct {
	Kind          OutcomeKind `json:"kind,omitempty"`
	DocumentTitle string      `json:"document_title,omitempty"`
	Documents     []string    `json:"documents,omitempty"`
}

// ClauseKey builds the composite key addressing a standard clause of a
// document by position.
func ClauseKey(document string, index int) string {
	return fmt.Sprintf("%s-%d", document, index)
}

// Conversation is the whole per-session intake state. It lives only in
// memory and is discarded when the session expires.
type Conversation struct {
	ID             string    `json:"conversation_id"`
	Step           Step      `json:"step"`
	Messages       []Message `json:"messages"`
	MessageCounter int       `json:"-"`

	// Document selection
	SuggestedDocs []string        `json:"suggested_docs,omitempty"`
	SelectedDocs  map[string]bool `json:"selected_docs,omitempty"`
	CreateDocs    []string        `json:"create_docs,omitempty"`
	// Insertion order of selections outside the suggested list.
	ExtraDocs []string `json:"-"`

	// "Based on" sources
	Templates   []TemplateSelection `json:"templates,omitempty"`
	BasedOnDocs []string            `json:"based_on_docs,omitempty"`

	// Clause configuration, keyed by ClauseKey. Absent key means visible.
	ClauseVisibility map[string]bool           `json:"clause_visibility,omitempty"`
	ClauseDetails    map[string]string         `json:"clause_details,omitempty"`
	CustomClauses    map[string][]CustomClause `json:"custom_clauses,omitempty"`

	Settings     DraftSettings `json:"settings"`
	GoverningLaw string        `json:"governing_law,omitempty"`
	Language     string        `json:"language,omitempty"`

	// Thinking is the currently displayed pacing status line, empty when idle.
	Thinking string  `json:"thinking,omitempty"`
	Outcome  Outcome `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindMessage returns the message with the given ID, or nil.
func (c *Conversation) FindMessage(id string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

// AppendMessage adds a message with a well-known ID, or updates it in
// place when that ID was already used.
func (c *Conversation) AppendMessage(id string, role Role, content string) {
	if existing := c.FindMessage(id); existing != nil {
		existing.Content = content
		return
	}
	c.Messages = append(c.Messages, Message{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// AppendSequential adds a dynamic message, advancing the counter.
func (c *Conversation) AppendSequential(role Role, content string) string {
	prefix := MessageIDAssistantPrefix
	if role == RoleUser {
		prefix = MessageIDUserPrefix
	}
	id := SequentialMessageID(prefix, c.MessageCounter)
	c.MessageCounter++
	c.Messages = append(c.Messages, Message{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return id
}

// FirstCreateDoc returns the document the guided questions focus on.
func (c *Conversation) FirstCreateDoc() string {
	if len(c.CreateDocs) == 0 {
		return "document"
	}
	return c.CreateDocs[0]
}

// DefaultBasedOnChips are always part of the based-on list.
var DefaultBasedOnChips = []string{"Company context", "Playbook"}

// RecomputeDerived rebuilds CreateDocs and BasedOnDocs from the current
// selections. Create order is suggestion order first, then other
// selections in the order they were made; with no document selected but
// templates chosen, the whole suggestion list is used.
func (c *Conversation) RecomputeDerived() {
	var chosen []string
	for _, name := range c.SuggestedDocs {
		if c.SelectedDocs[name] {
			chosen = append(chosen, name)
		}
	}
	for _, name := range c.ExtraDocs {
		if c.SelectedDocs[name] {
			chosen = append(chosen, name)
		}
	}
	if len(chosen) == 0 && len(c.Templates) > 0 {
		chosen = append([]string(nil), c.SuggestedDocs...)
	}
	c.CreateDocs = chosen

	based := append([]string(nil), DefaultBasedOnChips...)
	for _, t := range c.Templates {
		based = append(based, t.Label)
	}
	c.BasedOnDocs = based
}

// Reset returns the conversation to a blank landing state. The routing
// outcome of a finished flow is kept unless clearOutcome is set.
func (c *Conversation) Reset(clearOutcome bool) {
	c.Step = StepInitial
	c.Messages = nil
	c.MessageCounter = 0
	c.SuggestedDocs = nil
	c.SelectedDocs = map[string]bool{}
	c.CreateDocs = nil
	c.ExtraDocs = nil
	c.Templates = nil
	c.BasedOnDocs = nil
	c.ClauseVisibility = nil
	c.ClauseDetails = nil
	c.CustomClauses = nil
	c.Settings = DefaultDraftSettings()
	c.GoverningLaw = ""
	c.Language = ""
	c.Thinking = ""
	if clearOutcome {
		c.Outcome = Outcome{}
	}
}

// ClauseVisible reports whether a standard clause is included; clauses
// are visible unless explicitly switched off.
func (c *Conversation) ClauseVisible(document string, index int) bool {
	if c.ClauseVisibility == nil {
		return true
	}
	visible, ok := c.ClauseVisibility[ClauseKey(document, index)]
	if !ok {
		return true
	}
	return visible
}
