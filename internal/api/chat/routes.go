package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the chat passthrough route. All methods are
// routed to the handler so it can answer non-POST requests itself.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.HandleFunc("/api/chat", h.Chat)
}
