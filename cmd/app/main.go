package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/othala/internal"
	"github.com/starford/othala/internal/export"
	"github.com/starford/othala/internal/mcpserver"
	pkgconfig "github.com/starford/othala/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runAnalyze performs a one-shot sync and prints the report as JSON.
func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(slog.LevelWarn)

	svc, db, err := internal.NewVaultService(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Sync(ctx); err != nil {
		return err
	}
	analysis, err := svc.Analysis(ctx)
	if err != nil {
		return err
	}
	dups, err := svc.Duplicates(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"analysis":   analysis,
		"duplicates": dups,
	})
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Logs must not pollute the stdio transport.
	logger := internal.NewLogger(slog.LevelError)

	svc, db, err := internal.NewVaultService(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Sync(ctx); err != nil {
		return err
	}
	return mcpserver.New(svc).ServeStdio()
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Neo4j.ValidateForExport(); err != nil {
		return fmt.Errorf("neo4j config: %w", err)
	}
	logger := internal.NewLogger(cfg.App.LogLevel)

	svc, db, err := internal.NewVaultService(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Sync(ctx); err != nil {
		return err
	}
	g, err := svc.Graph(ctx)
	if err != nil {
		return err
	}

	exp, err := export.NewExporter(ctx, export.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
	}, logger)
	if err != nil {
		return err
	}
	defer exp.Close(ctx)

	return exp.Export(ctx, g)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "othala",
		Usage: "Markdown vault analyzer: link graph, duplicate detection, and structural reports",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with file watching and SSE updates",
				Flags:  []cli.Flag{configFlag},
				Action: runServe,
			},
			{
				Name:   "analyze",
				Usage:  "Analyze the vault once and print the report as JSON",
				Flags:  []cli.Flag{configFlag},
				Action: runAnalyze,
			},
			{
				Name:   "mcp",
				Usage:  "Serve vault analysis tools over the MCP stdio transport",
				Flags:  []cli.Flag{configFlag},
				Action: runMCP,
			},
			{
				Name:   "export",
				Usage:  "Export the link graph to Neo4j",
				Flags:  []cli.Flag{configFlag},
				Action: runExport,
			},
		},
		// Bare invocation serves, matching the common case.
		Action: runServe,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
