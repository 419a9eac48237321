package entity

import "errors"

// Domain errors
var (
	// Conversation errors
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message must not be empty")
	ErrWrongStep            = errors.New("wrong action for current step")
	ErrClauseNotFound       = errors.New("clause not found")
	ErrNoDocumentsSelected  = errors.New("no documents selected")

	// Validation errors
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrUnknownSlider     = errors.New("unknown slider")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Collaborator errors
	ErrMissingCredential = errors.New("missing API credential")
	ErrCollaborator      = errors.New("collaborator request failed")
	ErrEmptyCompletion   = errors.New("collaborator returned no content")
)
