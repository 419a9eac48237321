package conversation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers conversation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/conversation", func(r chi.Router) {
		r.Post("/", h.StartConversation)
		r.Get("/{id}", h.GetConversation)
		r.Post("/{id}/message", h.SubmitMessage)
		r.Post("/{id}/configure", h.ConfigureDocuments)
		r.Post("/{id}/continue", h.ContinueToFinalDetails)
		r.Post("/{id}/final-check", h.RunFinalCheck)
		r.Post("/{id}/restart", h.Restart)

		r.Post("/{id}/documents/toggle", h.ToggleDocument)
		r.Post("/{id}/templates/select", h.SelectTemplate)
		r.Put("/{id}/clauses/visibility", h.SetClauseVisibility)
		r.Put("/{id}/clauses/detail", h.SetClauseDetail)
		r.Post("/{id}/clauses/custom", h.AddCustomClause)
		r.Patch("/{id}/clauses/custom/{clause_id}", h.UpdateCustomClause)
		r.Delete("/{id}/clauses/custom/{clause_id}", h.RemoveCustomClause)
		r.Put("/{id}/settings/{slider}", h.SetSlider)
		r.Put("/{id}/law", h.SetGoverningLaw)
		r.Put("/{id}/language", h.SetLanguage)
		r.Get("/{id}/export", h.ExportBrief)
	})
}
