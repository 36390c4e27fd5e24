package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/notegraph/ai"
	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/corpus"
	"github.com/poiesic/notegraph/storage"
)

// defaultBatchSize is how many documents are embedded per worker task.
const defaultBatchSize = 32

// Pipeline ingests corpus entries into the document store. Embedding runs
// on a worker pool; unchanged documents are skipped by content fingerprint.
type Pipeline struct {
	repository storage.DocumentRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many documents are embedded per batch.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.DocumentRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Report summarizes an ingestion run.
type Report struct {
	// Seen is the number of entries read from the source.
	Seen int

	// Ingested is the number of documents embedded and stored.
	Ingested int

	// Unchanged is the number of entries skipped because their content
	// fingerprint matched the stored document.
	Unchanged int

	// Failed is the number of documents dropped due to embedding or
	// storage failures.
	Failed int
}

// Ingest reads every entry from the source, embeds new or changed
// documents in parallel batches and stores them. Per-batch failures are
// logged and counted but do not abort the run; the pipeline returns an
// error only when the source itself fails.
func (p *Pipeline) Ingest(ctx context.Context, source corpus.Source) (*Report, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	report := &Report{}
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		pending []*core.Document
	)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		batch := pending
		pending = nil

		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			n, err := p.embedAndStore(ctx, batch)
			mu.Lock()
			report.Ingested += n
			report.Failed += len(batch) - n
			mu.Unlock()
			if err != nil {
				p.logger.Error("error ingesting batch", "size", len(batch), "err", err)
			}
		}); err != nil {
			wg.Done()
			return err
		}
		return nil
	}

	for entry, err := range source.Documents(ctx) {
		if err != nil {
			wg.Wait()
			return nil, fmt.Errorf("reading corpus: %w", err)
		}
		report.Seen++

		if entry.Content == "" {
			p.logger.Warn("skipping document with empty content", "id", entry.Id, "path", entry.Path)
			report.Failed++
			continue
		}

		doc := &core.Document{
			Id:          entry.Id,
			Path:        entry.Path,
			Content:     entry.Content,
			Tags:        entry.Tags,
			Frontmatter: entry.Frontmatter,
		}

		changed, err := p.hasChanged(ctx, doc)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		if !changed {
			report.Unchanged++
			continue
		}

		pending = append(pending, doc)
		if len(pending) >= p.batchSize {
			if err := flush(); err != nil {
				wg.Wait()
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		wg.Wait()
		return nil, err
	}
	wg.Wait()

	p.logger.Info("ingestion complete",
		"seen", report.Seen,
		"ingested", report.Ingested,
		"unchanged", report.Unchanged,
		"failed", report.Failed)
	return report, nil
}

// hasChanged reports whether the document's content differs from the
// stored version. A stored document without an embedding is treated as
// changed so a previously failed batch gets retried.
func (p *Pipeline) hasChanged(ctx context.Context, doc *core.Document) (bool, error) {
	existing, err := p.repository.GetDocument(ctx, doc.Id)
	if errors.Is(err, storage.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if len(existing.Embedding) == 0 {
		return true, nil
	}
	return existing.Fingerprint != core.FingerprintContent(doc.Content), nil
}

// embedAndStore embeds a batch and upserts it, returning how many
// documents were stored.
func (p *Pipeline) embedAndStore(ctx context.Context, batch []*core.Document) (int, error) {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Content
	}

	p.logger.Debug("generating embeddings for batch", "documents", len(texts))
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(batch) {
		return 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
	}

	for i := range embeddings {
		batch[i].Embedding = embeddings[i]
	}

	if _, err := p.repository.UpsertDocuments(ctx, batch...); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
