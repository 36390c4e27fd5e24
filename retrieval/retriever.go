package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/notegraph/ai"
	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/graph"
	"github.com/poiesic/notegraph/index"
	"github.com/poiesic/notegraph/storage"
)

// graphScoreOffset keeps synthetic scores of graph-only discoveries
// strictly below the lowest fused score, so ranked documents are never
// displaced by expansion.
const graphScoreOffset = 0.01

// Retriever orchestrates retrieval over the shared indexes. It keeps no
// per-query state, so concurrent Retrieve calls against stable indexes
// are safe.
type Retriever struct {
	repo     storage.DocumentRepository
	vector   *index.VectorIndex
	lexical  *index.LexicalIndex
	graph    *graph.Graph
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config Config) Option {
	return func(r *Retriever) error {
		if err := config.Validate(); err != nil {
			return err
		}
		r.config = config
		return nil
	}
}

// NewRetriever creates a new retriever. The embedder may be nil for
// keyword-only use; vector-backed strategies then fail with a wrapped
// ErrEmbedderRequired instead of degrading silently.
func NewRetriever(
	repo storage.DocumentRepository,
	vectorIndex *index.VectorIndex,
	lexicalIndex *index.LexicalIndex,
	linkGraph *graph.Graph,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if vectorIndex == nil {
		return nil, ErrVectorIndexRequired
	}
	if lexicalIndex == nil {
		return nil, ErrLexicalIndexRequired
	}
	if linkGraph == nil {
		return nil, ErrGraphRequired
	}

	r := &Retriever{
		repo:     repo,
		vector:   vectorIndex,
		lexical:  lexicalIndex,
		graph:    linkGraph,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve answers a query with the selected strategy and returns the
// budget-bounded retrieval context. Identical inputs against identical
// index contents produce identical results.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) (*core.RetrievalContext, error) {
	return r.RetrieveWithMonitor(ctx, query, opts, nil)
}

// RetrieveWithMonitor is Retrieve with stage callbacks for observability.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, opts Options, monitor RetrievalMonitor) (*core.RetrievalContext, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	strategy := opts.Strategy
	if strategy == 0 {
		strategy = StrategyHybrid
	}
	k := opts.K
	if k <= 0 {
		k = r.config.TopK
		if strategy == StrategyFull {
			k = r.config.FullTopK
		}
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = r.config.GraphDepth
		if strategy == StrategyFull {
			depth = r.config.FullDepth
		}
	}

	monitor.Start(query, strategy)

	var (
		candidates []core.ScoredResult
		err        error
	)
	switch strategy {
	case StrategyVector:
		candidates, err = r.vectorSearch(ctx, query, k)
		monitor.AfterVectorSearch(candidates)
	case StrategyKeyword:
		candidates = r.lexical.Search(query, k)
		monitor.AfterKeywordSearch(candidates)
	case StrategyHybrid:
		candidates, err = r.hybridSearch(ctx, query, k, monitor)
	case StrategyGraph, StrategyFull:
		candidates, err = r.graphSearch(ctx, query, k, depth, monitor)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
	}
	if err != nil {
		return nil, err
	}

	rc, err := r.assemble(ctx, query, candidates, opts.Budget)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("retrieval complete",
		"strategy", strategy.String(),
		"candidates", rc.Metrics.Candidates,
		"returned", rc.Metrics.Returned,
		"contentBytes", rc.Metrics.ContentBytes)
	monitor.Finish(rc)
	return rc, nil
}

// vectorSearch embeds the query and searches the similarity index.
// Embedding-provider failure propagates as a retrieval error; callers
// wanting a degraded answer must select the keyword strategy themselves.
func (r *Retriever) vectorSearch(ctx context.Context, query string, k int) ([]core.ScoredResult, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, ErrEmbedderRequired)
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, fmt.Errorf("%w: embedding query: %w", ErrRetrievalFailed, err)
	}

	results, err := r.vector.Search(embedding, k)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %w", ErrRetrievalFailed, err)
	}
	return results, nil
}

// hybridSearch fuses vector and keyword rankings. Both sides contribute
// up to 2k candidates before fusion trims to k.
func (r *Retriever) hybridSearch(ctx context.Context, query string, k int, monitor RetrievalMonitor) ([]core.ScoredResult, error) {
	vectorResults, err := r.vectorSearch(ctx, query, 2*k)
	if err != nil {
		return nil, err
	}
	monitor.AfterVectorSearch(vectorResults)

	keywordResults := r.lexical.Search(query, 2*k)
	monitor.AfterKeywordSearch(keywordResults)

	fused, err := index.Fuse(vectorResults, keywordResults, r.config.FusionWeight)
	if err != nil {
		return nil, err
	}
	if len(fused) > k {
		fused = fused[:k]
	}
	monitor.AfterFusion(fused)
	return fused, nil
}

// graphSearch expands the top hybrid seeds through the link graph.
// Graph-only discoveries are appended below every fused result with a
// synthetic score, preserving the original ranking.
func (r *Retriever) graphSearch(ctx context.Context, query string, k, depth int, monitor RetrievalMonitor) ([]core.ScoredResult, error) {
	ranked, err := r.hybridSearch(ctx, query, k, monitor)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	seedCount := min(r.config.SeedCount, len(ranked))
	seeds := make([]core.ID, seedCount)
	for i := range seedCount {
		seeds[i] = ranked[i].DocumentId
	}

	inRanking := make(map[core.ID]bool, len(ranked))
	for _, res := range ranked {
		inRanking[res.DocumentId] = true
	}

	expanded := r.graph.Expand(seeds, depth)
	synthetic := ranked[len(ranked)-1].Score - graphScoreOffset

	var discovered []core.ID
	for _, id := range expanded {
		if inRanking[id] {
			continue
		}
		discovered = append(discovered, id)
		ranked = append(ranked, core.ScoredResult{
			DocumentId: id,
			Score:      synthetic,
			Source:     core.SourceGraph,
		})
	}
	monitor.AfterGraphExpansion(seeds, discovered)

	return ranked, nil
}

// assemble hydrates candidates from the store and enforces the budget.
// Candidates are already deduplicated by construction; documents deleted
// since the last index rebuild are skipped.
func (r *Retriever) assemble(ctx context.Context, query string, candidates []core.ScoredResult, budget Budget) (*core.RetrievalContext, error) {
	ids := make([]core.ID, len(candidates))
	byId := make(map[core.ID]core.ScoredResult, len(candidates))
	for i, c := range candidates {
		ids[i] = c.DocumentId
		byId[c.DocumentId] = c
	}

	docs, err := r.repo.GetDocuments(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading documents: %w", ErrRetrievalFailed, err)
	}

	rc := &core.RetrievalContext{
		Query: query,
		Metrics: core.Metrics{
			Candidates: len(candidates),
			PerSource:  make(map[core.Source]int),
		},
	}

	for _, doc := range docs {
		if budget.MaxDocuments > 0 && len(rc.Results) >= budget.MaxDocuments {
			break
		}
		if budget.MaxContentBytes > 0 && rc.Metrics.ContentBytes+len(doc.Content) > budget.MaxContentBytes {
			break
		}

		scored := byId[doc.Id]
		rc.Results = append(rc.Results, &core.SearchResult{
			Document: doc,
			Score:    scored.Score,
			Source:   scored.Source,
		})
		rc.Metrics.PerSource[scored.Source]++
		rc.Metrics.ContentBytes += len(doc.Content)
	}

	rc.Metrics.Returned = len(rc.Results)
	return rc, nil
}
