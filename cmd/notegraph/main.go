// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/notegraph"
	"github.com/poiesic/notegraph/ai"
	"github.com/poiesic/notegraph/corpus"
	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/ingestion"
	"github.com/poiesic/notegraph/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "notegraph",
		Usage: "Hybrid retrieval over linked note collections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Ingest a note directory into the database",
				Action: indexCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "notes",
						Aliases:  []string{"n"},
						Usage:    "Path to the note directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed per batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding workers",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Query the database",
				Action: searchCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Retrieval strategy (vector, keyword, hybrid, graph, full)",
						Value:   "hybrid",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of documents to return",
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Graph expansion depth",
					},
					&cli.IntFlag{
						Name:  "max-documents",
						Usage: "Budget cap on returned documents",
					},
					&cli.IntFlag{
						Name:  "max-content-bytes",
						Usage: "Budget cap on cumulative content size",
					},
				),
			},
			{
				Name:      "path",
				Usage:     "Find a shortest link path between two notes",
				ArgsUsage: "<start> <end>",
				Action:    pathCommand,
				Flags:     dbFlags(),
			},
			{
				Name:   "stats",
				Usage:  "Summarize the link graph",
				Action: statsCommand,
				Flags: append(dbFlags(),
					&cli.IntFlag{
						Name:  "hubs",
						Usage: "Number of hub notes to list",
						Value: 5,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openEngine(c *cli.Context) (*notegraph.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	engine, err := notegraph.NewEngine(c.String("db"), notegraph.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	source, err := corpus.NewDirSource(c.String("notes"))
	if err != nil {
		return err
	}

	report, err := engine.Index(ctx, source, indexOptions(c)...)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %s\n", source.Root())
	fmt.Printf("  seen:      %d\n", report.Seen)
	fmt.Printf("  ingested:  %d\n", report.Ingested)
	fmt.Printf("  unchanged: %d\n", report.Unchanged)
	fmt.Printf("  failed:    %d\n", report.Failed)
	return nil
}

func indexOptions(c *cli.Context) []ingestion.Option {
	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(workers))
	}
	return opts
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	strategy, err := retrieval.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuilding indexes: %w", err)
	}

	rc, err := engine.Retrieve(ctx, query, retrieval.Options{
		Strategy: strategy,
		K:        c.Int("top-k"),
		Depth:    c.Int("depth"),
		Budget: retrieval.Budget{
			MaxDocuments:    c.Int("max-documents"),
			MaxContentBytes: c.Int("max-content-bytes"),
		},
	})
	if err != nil {
		return err
	}

	if len(rc.Results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, res := range rc.Results {
		fmt.Printf("%2d. [%.4f] %s (%s)\n", i+1, res.Score, res.Document.Id, res.Source)
	}
	fmt.Printf("\n%d candidates, %d returned, %d content bytes\n",
		rc.Metrics.Candidates, rc.Metrics.Returned, rc.Metrics.ContentBytes)
	return nil
}

func pathCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 2 {
		return fmt.Errorf("expected exactly two arguments: <start> <end>")
	}
	start := core.ID(c.Args().Get(0))
	end := core.ID(c.Args().Get(1))

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuilding indexes: %w", err)
	}

	path, err := engine.FindPath(start, end)
	if err != nil {
		return err
	}

	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	fmt.Println(strings.Join(parts, " -> "))
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuilding indexes: %w", err)
	}

	stats := engine.GraphStats()
	fmt.Printf("notes:            %d\n", stats.Nodes)
	fmt.Printf("links:            %d\n", stats.Edges)
	fmt.Printf("dangling links:   %d\n", stats.Dangling)
	fmt.Printf("avg out-degree:   %.2f\n", stats.AvgOutDegree)
	fmt.Printf("avg in-degree:    %.2f\n", stats.AvgInDegree)
	fmt.Printf("weak components:  %d\n", stats.WeakComponents)

	hubs := engine.Hubs(c.Int("hubs"))
	if len(hubs) > 0 {
		fmt.Println("\nhubs:")
		for _, hub := range hubs {
			fmt.Printf("  %s (degree %d)\n", hub.Id, hub.Degree)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
