// Package snapshot persists the latest vault analysis (graph nodes,
// edges, and the duplicate report) in SQLite so the HTTP and MCP surfaces
// can read without re-walking the vault.
package snapshot

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nodes (
	label    TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS edges (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	UNIQUE(source, target)
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);

CREATE TABLE IF NOT EXISTS duplicates (
	kind  TEXT NOT NULL,
	label TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Duplicate kinds stored in the duplicates table.
const (
	DuplicateByName    = "name"
	DuplicateByContent = "content"
)

// NodeRow is one graph node in the snapshot.
type NodeRow struct {
	Label    string
	Name     string
	Checksum string
}

// EdgeRow is one resolved link in the snapshot.
type EdgeRow struct {
	Source string
	Target string
}

// DuplicateRow is one duplicate report entry.
type DuplicateRow struct {
	Kind  string
	Label string
}

// DB wraps a sql.DB with snapshot-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("snapshot: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("snapshot: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("snapshot: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Replace swaps the whole snapshot in one transaction.
func (db *DB) Replace(nodes []NodeRow, edges []EdgeRow, dups []DuplicateRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"nodes", "edges", "duplicates"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("snapshot: clear %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (label, name, checksum) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range nodes {
		if _, err := nodeStmt.Exec(n.Label, n.Name, n.Checksum); err != nil {
			return fmt.Errorf("snapshot: insert node: %w", err)
		}
	}

	edgeStmt, err := tx.Prepare(`INSERT OR IGNORE INTO edges (source, target) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range edges {
		if _, err := edgeStmt.Exec(e.Source, e.Target); err != nil {
			return fmt.Errorf("snapshot: insert edge: %w", err)
		}
	}

	dupStmt, err := tx.Prepare(`INSERT INTO duplicates (kind, label) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare duplicate insert: %w", err)
	}
	defer dupStmt.Close()
	for _, d := range dups {
		if _, err := dupStmt.Exec(d.Kind, d.Label); err != nil {
			return fmt.Errorf("snapshot: insert duplicate: %w", err)
		}
	}

	_, err = tx.Exec(`INSERT INTO meta (key, value) VALUES ('synced_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("snapshot: update meta: %w", err)
	}

	return tx.Commit()
}

// Graph returns the stored nodes and edges.
func (db *DB) Graph() ([]NodeRow, []EdgeRow, error) {
	rows, err := db.conn.Query(`SELECT label, name, checksum FROM nodes ORDER BY label`)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: query nodes: %w", err)
	}
	defer rows.Close()
	var nodes []NodeRow
	for rows.Next() {
		var n NodeRow
		if err := rows.Scan(&n.Label, &n.Name, &n.Checksum); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	erows, err := db.conn.Query(`SELECT source, target FROM edges ORDER BY source, target`)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: query edges: %w", err)
	}
	defer erows.Close()
	var edges []EdgeRow
	for erows.Next() {
		var e EdgeRow
		if err := erows.Scan(&e.Source, &e.Target); err != nil {
			return nil, nil, err
		}
		edges = append(edges, e)
	}
	return nodes, edges, erows.Err()
}

// Duplicates returns the stored duplicate report.
func (db *DB) Duplicates() ([]DuplicateRow, error) {
	rows, err := db.conn.Query(`SELECT kind, label FROM duplicates ORDER BY kind, label`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query duplicates: %w", err)
	}
	defer rows.Close()
	var out []DuplicateRow
	for rows.Next() {
		var d DuplicateRow
		if err := rows.Scan(&d.Kind, &d.Label); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Backlinks returns the labels of all nodes with an edge into target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM edges WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("snapshot: backlinks: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SyncedAt returns the time of the last Replace, zero when never synced.
func (db *DB) SyncedAt() (time.Time, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = 'synced_at'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot: synced_at: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}
