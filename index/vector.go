package index

import (
	"context"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/storage"
)

// VectorIndex performs cosine-similarity nearest-neighbor search over
// document embeddings. Entries are normalized on insertion, so similarity
// reduces to a dot product at query time.
type VectorIndex struct {
	mu       sync.Mutex // serializes Rebuild and Add
	snapshot atomic.Pointer[vectorSnapshot]
}

type vectorEntry struct {
	id  core.ID
	vec []float32 // unit length
}

type vectorSnapshot struct {
	dim     int
	entries []vectorEntry // sorted by id
}

// NewVectorIndex creates an empty vector index. The dimensionality is
// fixed by the first embedding added.
func NewVectorIndex() *VectorIndex {
	idx := &VectorIndex{}
	idx.snapshot.Store(&vectorSnapshot{})
	return idx
}

// Rebuild fully replaces the index contents from the repository.
// Documents without embeddings are skipped. Readers observe either the
// old or the new snapshot, never an intermediate state.
func (idx *VectorIndex) Rebuild(ctx context.Context, repo storage.DocumentRepository) error {
	if repo == nil {
		return ErrRepositoryRequired
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := &vectorSnapshot{}
	for doc, err := range repo.AllDocuments(ctx) {
		if err != nil {
			return err
		}
		if len(doc.Embedding) == 0 {
			continue
		}
		if err := next.insert(doc.Id, doc.Embedding); err != nil {
			return err
		}
	}

	next.sort()
	idx.snapshot.Store(next)
	return nil
}

// Add inserts or replaces a single entry. The embedding must match the
// index dimensionality; mismatches signal ErrDimensionMismatch.
func (idx *VectorIndex) Add(id core.ID, embedding []float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current := idx.snapshot.Load()
	next := &vectorSnapshot{
		dim:     current.dim,
		entries: make([]vectorEntry, 0, len(current.entries)+1),
	}
	for _, e := range current.entries {
		if e.id != id {
			next.entries = append(next.entries, e)
		}
	}
	if err := next.insert(id, embedding); err != nil {
		return err
	}

	next.sort()
	idx.snapshot.Store(next)
	return nil
}

// Len returns the number of indexed entries.
func (idx *VectorIndex) Len() int {
	return len(idx.snapshot.Load().entries)
}

// Search returns up to k entries ranked by cosine similarity to the query
// embedding, descending, with ties broken by ascending ID. If k exceeds
// the index size, all entries are returned. A query of mismatched
// dimensionality signals ErrDimensionMismatch.
func (idx *VectorIndex) Search(queryEmbedding []float32, k int) ([]core.ScoredResult, error) {
	snap := idx.snapshot.Load()
	if len(snap.entries) == 0 || k <= 0 {
		return nil, nil
	}
	if len(queryEmbedding) != snap.dim {
		return nil, ErrDimensionMismatch
	}

	query, err := normalize(queryEmbedding)
	if err != nil {
		return nil, err
	}

	results := make([]core.ScoredResult, 0, len(snap.entries))
	for _, e := range snap.entries {
		results = append(results, core.ScoredResult{
			DocumentId: e.id,
			Score:      dotProduct(query, e.vec),
			Source:     core.SourceVector,
		})
	}

	sortScoredResults(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *vectorSnapshot) insert(id core.ID, embedding []float32) error {
	if s.dim == 0 {
		s.dim = len(embedding)
	}
	if len(embedding) != s.dim {
		return ErrDimensionMismatch
	}

	vec, err := normalize(embedding)
	if err != nil {
		return err
	}
	s.entries = append(s.entries, vectorEntry{id: id, vec: vec})
	return nil
}

func (s *vectorSnapshot) sort() {
	slices.SortFunc(s.entries, func(a, b vectorEntry) int {
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})
}

// normalize returns a unit-length copy of the vector.
func normalize(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, ErrZeroVector
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// dotProduct calculates the dot product of two equal-length vectors.
func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// sortScoredResults orders results by score descending, ties broken by
// ascending document ID for determinism.
func sortScoredResults(results []core.ScoredResult) {
	slices.SortFunc(results, func(a, b core.ScoredResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.DocumentId < b.DocumentId {
			return -1
		}
		if a.DocumentId > b.DocumentId {
			return 1
		}
		return 0
	})
}
