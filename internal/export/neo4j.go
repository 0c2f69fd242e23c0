// Package export pushes the vault link graph into Neo4j so it can be
// explored with Cypher alongside other knowledge graphs.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/starford/othala/internal/graph"
)

// Config holds Neo4j connection settings.
type Config struct {
	URI      string
	Username string
	Password string
}

// Exporter writes vault graphs to a Neo4j instance.
type Exporter struct {
	driver neo4j.DriverWithContext
	log    *slog.Logger
}

// NewExporter connects to Neo4j and verifies connectivity.
func NewExporter(ctx context.Context, cfg Config, log *slog.Logger) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("export: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx) //nolint:errcheck
		return nil, fmt.Errorf("export: verify connectivity: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{driver: driver, log: log}, nil
}

// Close closes the Neo4j driver connection.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Export merges every node and edge of g into Neo4j. Notes become
// (:Note {label}) nodes and resolved links become [:LINKS_TO]
// relationships. MERGE keeps the operation idempotent across repeated
// exports of the same vault.
func (e *Exporter) Export(ctx context.Context, g *graph.Graph) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	nodes := make([]map[string]any, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes = append(nodes, map[string]any{"label": n.Label})
	}
	links := make([]map[string]any, 0, g.EdgeCount())
	for _, edge := range g.Edges() {
		links = append(links, map[string]any{
			"source": g.Label(edge.From),
			"target": g.Label(edge.To),
		})
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			UNWIND $nodes AS n
			MERGE (:Note {label: n.label})
		`, map[string]any{"nodes": nodes})
		if err != nil {
			return nil, fmt.Errorf("merge nodes: %w", err)
		}

		_, err = tx.Run(ctx, `
			UNWIND $links AS l
			MATCH (s:Note {label: l.source})
			MATCH (t:Note {label: l.target})
			MERGE (s)-[:LINKS_TO]->(t)
		`, map[string]any{"links": links})
		if err != nil {
			return nil, fmt.Errorf("merge links: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	e.log.Info("graph exported",
		slog.Int("nodes", len(nodes)),
		slog.Int("links", len(links)))
	return nil
}
