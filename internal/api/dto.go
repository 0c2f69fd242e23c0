package api

import (
	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/vaultservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = vaultservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = vaultservice.NoteListItem

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// GraphNode is a node in the link graph response.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GraphLink is an edge in the link graph response.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphResponse wraps the link graph.
type GraphResponse struct {
	Kind  string      `json:"kind"`
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// DuplicatesResponse wraps the duplicate report.
type DuplicatesResponse struct {
	Duplicates []vaultservice.Duplicate `json:"duplicates"`
}

// AnalysisResponse wraps the graph summary.
type AnalysisResponse = graph.Analysis

// BacklinksResponse wraps the backlinks of one note.
type BacklinksResponse struct {
	Target    string   `json:"target"`
	Backlinks []string `json:"backlinks"`
}
