package ingestion

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/poiesic/notegraph/ai/mock"
	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/corpus"
	"github.com/poiesic/notegraph/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource is an in-memory corpus.Source for tests.
type sliceSource struct {
	entries []corpus.Entry
	err     error
}

func (s *sliceSource) Documents(_ context.Context) iter.Seq2[corpus.Entry, error] {
	return func(yield func(corpus.Entry, error) bool) {
		for _, entry := range s.entries {
			if !yield(entry, nil) {
				return
			}
		}
		if s.err != nil {
			yield(corpus.Entry{}, s.err)
		}
	}
}

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *mock.MockEmbedder, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(repo, embedder, opts...)
	require.NoError(t, err)

	cleanup := func() {
		pipeline.Release()
		_ = backend.Close()
	}
	return pipeline, embedder, cleanup
}

func testEntries() []corpus.Entry {
	return []corpus.Entry{
		{Id: "alpha", Path: "notes/alpha.md", Content: "alpha body [[beta]]", Tags: []string{"a"}},
		{Id: "beta", Path: "notes/beta.md", Content: "beta body"},
		{Id: "gamma", Path: "notes/gamma.md", Content: "gamma body"},
	}
}

func TestNewPipelineValidation(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestStoresEmbeddedDocuments(t *testing.T) {
	pipeline, _, cleanup := newTestPipeline(t)
	defer cleanup()
	ctx := context.Background()

	report, err := pipeline.Ingest(ctx, &sliceSource{entries: testEntries()})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Seen)
	assert.Equal(t, 3, report.Ingested)
	assert.Equal(t, 0, report.Unchanged)
	assert.Equal(t, 0, report.Failed)

	doc, err := pipeline.repository.GetDocument(ctx, "alpha")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Embedding)
	assert.Equal(t, []string{"a"}, doc.Tags)
	assert.Equal(t, core.FingerprintContent("alpha body [[beta]]"), doc.Fingerprint)
}

func TestIngestSkipsUnchangedDocuments(t *testing.T) {
	pipeline, embedder, cleanup := newTestPipeline(t)
	defer cleanup()
	ctx := context.Background()

	source := &sliceSource{entries: testEntries()}
	_, err := pipeline.Ingest(ctx, source)
	require.NoError(t, err)

	calls := embedder.CallCount()
	report, err := pipeline.Ingest(ctx, source)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Seen)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 3, report.Unchanged)
	assert.Equal(t, calls, embedder.CallCount())
}

func TestIngestReembedsChangedContent(t *testing.T) {
	pipeline, _, cleanup := newTestPipeline(t)
	defer cleanup()
	ctx := context.Background()

	entries := testEntries()
	_, err := pipeline.Ingest(ctx, &sliceSource{entries: entries})
	require.NoError(t, err)

	entries[0].Content = "alpha body rewritten"
	report, err := pipeline.Ingest(ctx, &sliceSource{entries: entries})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 2, report.Unchanged)

	doc, err := pipeline.repository.GetDocument(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha body rewritten", doc.Content)
}

func TestIngestCountsBatchFailures(t *testing.T) {
	pipeline, embedder, cleanup := newTestPipeline(t, WithBatchSize(1), WithPoolSize(1))
	defer cleanup()
	ctx := context.Background()

	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		if texts[0] == "beta body" {
			return nil, errors.New("embedding backend unavailable")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0, 0}
		}
		return out, nil
	}

	report, err := pipeline.Ingest(ctx, &sliceSource{entries: testEntries()})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Seen)
	assert.Equal(t, 2, report.Ingested)
	assert.Equal(t, 1, report.Failed)

	_, err = pipeline.repository.GetDocument(ctx, "beta")
	assert.Error(t, err)
}

func TestIngestSourceErrorAborts(t *testing.T) {
	pipeline, _, cleanup := newTestPipeline(t)
	defer cleanup()

	sourceErr := errors.New("disk vanished")
	_, err := pipeline.Ingest(context.Background(), &sliceSource{
		entries: testEntries()[:1],
		err:     sourceErr,
	})
	assert.ErrorIs(t, err, sourceErr)
}

func TestIngestNilSource(t *testing.T) {
	pipeline, _, cleanup := newTestPipeline(t)
	defer cleanup()

	_, err := pipeline.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSourceRequired)
}
