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


package notegraph

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/notegraph/ai"
	"github.com/poiesic/notegraph/ai/openai"
	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/corpus"
	"github.com/poiesic/notegraph/graph"
	"github.com/poiesic/notegraph/index"
	"github.com/poiesic/notegraph/ingestion"
	"github.com/poiesic/notegraph/retrieval"
	"github.com/poiesic/notegraph/storage"
	"github.com/poiesic/notegraph/storage/badger"
)

// Engine bundles the document store, both indexes, the link graph and the
// retriever behind one handle. Indexes are rebuilt from the store, never
// persisted; call Rebuild after opening an existing database.
type Engine struct {
	backend   *badger.Backend
	repo      storage.DocumentRepository
	vector    *index.VectorIndex
	lexical   *index.LexicalIndex
	graph     *graph.Graph
	embedder  ai.Embedder
	retriever *retrieval.Retriever
	resolver  graph.LinkResolver
	config    retrieval.Config

	// rebuildMu serializes full index rebuilds.
	rebuildMu sync.Mutex
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	retrievalConfig retrieval.Config
	embedder        ai.Embedder
	resolver        graph.LinkResolver
	inMemory        bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithRetrievalConfig sets the retrieval orchestrator configuration.
func WithRetrievalConfig(config retrieval.Config) EngineOption {
	return func(o *engineOptions) {
		o.retrievalConfig = config
	}
}

// WithEmbedder injects an embedder directly, bypassing the AI config.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithLinkResolver replaces the default wikilink resolver.
func WithLinkResolver(resolver graph.LinkResolver) EngineOption {
	return func(o *engineOptions) {
		o.resolver = resolver
	}
}

// WithInMemory opens the store in memory, discarding data on Close.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens or creates an engine at the given path.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:        ai.DefaultConfig(),
		retrievalConfig: retrieval.DefaultConfig(),
		resolver:        graph.WikilinkResolver,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	vectorIndex := index.NewVectorIndex()
	lexicalIndex := index.NewLexicalIndex()
	linkGraph := graph.NewGraph()

	retriever, err := retrieval.NewRetriever(repo, vectorIndex, lexicalIndex, linkGraph, embedder,
		retrieval.WithConfig(options.retrievalConfig))
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		repo:      repo,
		vector:    vectorIndex,
		lexical:   lexicalIndex,
		graph:     linkGraph,
		embedder:  embedder,
		retriever: retriever,
		resolver:  options.resolver,
		config:    options.retrievalConfig,
		logger:    slog.Default(),
	}, nil
}

// Rebuild reconstructs all indexes and the link graph from the store.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	if err := e.vector.Rebuild(ctx, e.repo); err != nil {
		return err
	}
	if err := e.lexical.Rebuild(ctx, e.repo); err != nil {
		return err
	}
	if err := e.graph.Rebuild(ctx, e.repo, e.resolver); err != nil {
		return err
	}

	e.logger.Debug("indexes rebuilt",
		"documents", e.vector.Len(),
		"nodes", len(e.graph.Nodes()),
		"edges", e.graph.EdgeCount())
	return nil
}

// Index ingests every entry from the source and rebuilds the indexes.
func (e *Engine) Index(ctx context.Context, source corpus.Source, opts ...ingestion.Option) (*ingestion.Report, error) {
	pipeline, err := ingestion.NewPipeline(e.repo, e.embedder, opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(ctx, source)
	if err != nil {
		return nil, err
	}

	if err := e.Rebuild(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// Retrieve answers a query with the selected strategy.
func (e *Engine) Retrieve(ctx context.Context, query string, opts retrieval.Options) (*core.RetrievalContext, error) {
	return e.retriever.Retrieve(ctx, query, opts)
}

// FindPath returns a shortest link path between two documents, bounded by
// the configured hop limit.
func (e *Engine) FindPath(start, end core.ID) ([]core.ID, error) {
	return e.graph.FindPath(start, end, e.config.MaxHops)
}

// Expand returns all documents reachable from the seeds within depth hops.
func (e *Engine) Expand(seeds []core.ID, depth int) []core.ID {
	return e.graph.Expand(seeds, depth)
}

// GraphStats summarizes the link graph.
func (e *Engine) GraphStats() graph.Stats {
	return e.graph.Stats()
}

// Hubs returns the most connected documents.
func (e *Engine) Hubs(topK int) []graph.HubNode {
	return e.graph.Hubs(topK)
}

// Related returns documents sharing at least minShared graph neighbors
// with the given document.
func (e *Engine) Related(id core.ID, minShared int) []core.ID {
	return e.graph.Related(id, minShared)
}

// Repository exposes the underlying document repository.
func (e *Engine) Repository() storage.DocumentRepository {
	return e.repo
}

func (e *Engine) Close() error {
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
