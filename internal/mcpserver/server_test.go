package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/snapshot"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/vaultservice"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	db, err := snapshot.Open(filepath.Join(t.TempDir(), "mcp-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc, err := vaultservice.NewService(testutil.LinkedFixture(t), db, vaultservice.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_graph":
		result, err = srv.getGraph(ctx, req)
	case "analyze_vault":
		result, err = srv.analyzeVault(ctx, req)
	case "find_duplicates":
		result, err = srv.findDuplicates(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetGraph(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_graph", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{`"nodes"`, `"links"`, "data/main"} {
		if !strings.Contains(text, want) {
			t.Errorf("graph output missing %s in %q", want, text)
		}
	}
}

func TestAnalyzeVault(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "analyze_vault", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"nodes": 3`) {
		t.Errorf("analysis output missing node count: %q", text)
	}
}

func TestFindDuplicates_None(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "find_duplicates", map[string]interface{}{})
	if resultText(r) != "no duplicates found" {
		t.Errorf("duplicates = %q", resultText(r))
	}
}

func TestReadNote(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"label": "data/main"})
	text := resultText(r)
	if !strings.Contains(text, "New main.") {
		t.Errorf("read result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"label": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 labels, got %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"label": "main"})
	if text := resultText(r); text != "link" {
		t.Errorf("backlinks = %q, want link", text)
	}
}
