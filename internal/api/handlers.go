package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/vaultservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *vaultservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *vaultservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteLabel extracts the note label from the URL (everything after the
// route prefix). Supports encoded slashes from OpenAPI clients
// (e.g. topics%2Fnote).
func noteLabel(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, vaultservice.ErrNotSynced):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("vault not synced yet"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	if items == nil {
		items = []NoteListItem{}
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/*.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	label := noteLabel(r)
	if label == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("note label is required"))
		return
	}
	detail, err := h.svc.ReadNote(r.Context(), label)
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Backlinks handles GET /api/backlinks/*.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	label := noteLabel(r)
	if label == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("note label is required"))
		return
	}
	bl, err := h.svc.Backlinks(r.Context(), label)
	if err != nil {
		writeServiceError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Target: label, Backlinks: bl})
}

// Graph handles GET /api/graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Graph(r.Context())
	if err != nil {
		writeServiceError(w, "graph", err)
		return
	}

	nodes := make([]GraphNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes = append(nodes, GraphNode{ID: n.Label, Label: n.Label})
	}
	links := make([]GraphLink, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		links = append(links, GraphLink{
			Source: g.Label(e.From),
			Target: g.Label(e.To),
		})
	}
	writeJSON(w, http.StatusOK, GraphResponse{Kind: g.Kind().String(), Nodes: nodes, Links: links})
}

// Duplicates handles GET /api/duplicates.
func (h *Handler) Duplicates(w http.ResponseWriter, r *http.Request) {
	dups, err := h.svc.Duplicates(r.Context())
	if err != nil {
		writeServiceError(w, "duplicates", err)
		return
	}
	if dups == nil {
		dups = []vaultservice.Duplicate{}
	}
	writeJSON(w, http.StatusOK, DuplicatesResponse{Duplicates: dups})
}

// Analysis handles GET /api/analysis.
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Analysis(r.Context())
	if err != nil {
		writeServiceError(w, "analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
