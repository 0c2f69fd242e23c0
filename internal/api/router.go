package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/vaultservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *vaultservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Get("/backlinks/*", h.Backlinks)

	// Analysis.
	r.Get("/graph", h.Graph)
	r.Get("/duplicates", h.Duplicates)
	r.Get("/analysis", h.Analysis)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
