// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes vault analysis tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/vaultservice"
)

// Server wraps the MCP server with vault analysis tools.
type Server struct {
	mcp *server.MCPServer
	svc *vaultservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *vaultservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return the full link graph of the vault as JSON (nodes and links)."),
	), s.getGraph)

	s.mcp.AddTool(mcp.NewTool("analyze_vault",
		mcp.WithDescription("Return a structural summary of the vault: note count, link count, connected components, and the hub note."),
	), s.analyzeVault)

	s.mcp.AddTool(mcp.NewTool("find_duplicates",
		mcp.WithDescription("Report notes that share a name or identical content with another note."),
	), s.findDuplicates)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note by its label: the vault-relative path without extension (e.g. folder/note)."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Note label (e.g. folder/note)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the labels of all notes in the vault."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Label of the note to find backlinks for")),
	), s.getBacklinks)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.svc.Graph(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	type link struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	nodes := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes = append(nodes, n.Label)
	}
	links := make([]link, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		links = append(links, link{Source: g.Label(e.From), Target: g.Label(e.To)})
	}
	out, _ := json.MarshalIndent(map[string]any{"nodes": nodes, "links": links}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) analyzeVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := s.svc.Analysis(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findDuplicates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dups, err := s.svc.Duplicates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(dups) == 0 {
		return mcp.NewToolResultText("no duplicates found"), nil
	}
	out, _ := json.MarshalIndent(dups, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.ReadNote(ctx, label)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", label)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return mcp.NewToolResultText(strings.Join(labels, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, label)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}
