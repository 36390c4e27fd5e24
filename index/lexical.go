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

// BM25 parameters. Standard values; k1 controls term-frequency
// saturation, b controls document-length normalization.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// LexicalIndex performs BM25 keyword search over document contents.
// Query terms unknown to the index contribute zero score; an empty corpus
// yields an empty result, never an error.
type LexicalIndex struct {
	mu       sync.Mutex // serializes Rebuild and Add
	snapshot atomic.Pointer[lexicalSnapshot]
}

type lexicalEntry struct {
	id        core.ID
	termFreqs map[string]int
	length    int // total term count
}

type lexicalSnapshot struct {
	entries   []lexicalEntry // sorted by id
	docFreqs  map[string]int // documents containing each term
	totalLen  int
	avgDocLen float64
}

// NewLexicalIndex creates an empty lexical index.
func NewLexicalIndex() *LexicalIndex {
	idx := &LexicalIndex{}
	idx.snapshot.Store(newLexicalSnapshot())
	return idx
}

func newLexicalSnapshot() *lexicalSnapshot {
	return &lexicalSnapshot{docFreqs: make(map[string]int)}
}

// Rebuild fully replaces the index contents from the repository.
// Readers observe either the old or the new snapshot atomically.
func (idx *LexicalIndex) Rebuild(ctx context.Context, repo storage.DocumentRepository) error {
	if repo == nil {
		return ErrRepositoryRequired
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := newLexicalSnapshot()
	for doc, err := range repo.AllDocuments(ctx) {
		if err != nil {
			return err
		}
		next.insert(doc.Id, doc.Content)
	}

	next.finish()
	idx.snapshot.Store(next)
	return nil
}

// Add inserts or replaces a single document's terms.
func (idx *LexicalIndex) Add(id core.ID, content string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current := idx.snapshot.Load()
	next := newLexicalSnapshot()
	for _, e := range current.entries {
		if e.id == id {
			continue
		}
		next.entries = append(next.entries, e)
		next.totalLen += e.length
		for term := range e.termFreqs {
			next.docFreqs[term]++
		}
	}
	next.insert(id, content)
	next.finish()
	idx.snapshot.Store(next)
}

// Len returns the number of indexed documents.
func (idx *LexicalIndex) Len() int {
	return len(idx.snapshot.Load().entries)
}

// Search returns up to k documents ranked by BM25 score against the query
// text, descending, with ties broken by ascending ID. Only documents with
// a positive score are returned.
func (idx *LexicalIndex) Search(queryText string, k int) []core.ScoredResult {
	snap := idx.snapshot.Load()
	if len(snap.entries) == 0 || k <= 0 {
		return nil
	}

	terms := tokenize(queryText)
	if len(terms) == 0 {
		return nil
	}

	n := float64(len(snap.entries))
	results := make([]core.ScoredResult, 0, len(snap.entries))
	for _, e := range snap.entries {
		score := snap.scoreEntry(e, terms, n)
		if score > 0 {
			results = append(results, core.ScoredResult{
				DocumentId: e.id,
				Score:      score,
				Source:     core.SourceKeyword,
			})
		}
	}

	sortScoredResults(results)
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func (s *lexicalSnapshot) scoreEntry(e lexicalEntry, terms []string, n float64) float64 {
	var score float64
	docLen := float64(e.length)
	for _, term := range terms {
		tf := float64(e.termFreqs[term])
		if tf == 0 {
			continue
		}
		df := float64(s.docFreqs[term])
		// BM25 idf with the +1 inside the log keeps it non-negative.
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLen/s.avgDocLen))
	}
	return score
}

func (s *lexicalSnapshot) insert(id core.ID, content string) {
	terms := tokenize(content)
	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}
	for term := range freqs {
		s.docFreqs[term]++
	}
	s.entries = append(s.entries, lexicalEntry{
		id:        id,
		termFreqs: freqs,
		length:    len(terms),
	})
	s.totalLen += len(terms)
}

func (s *lexicalSnapshot) finish() {
	if len(s.entries) > 0 {
		s.avgDocLen = float64(s.totalLen) / float64(len(s.entries))
	}
	if s.avgDocLen == 0 {
		s.avgDocLen = 1 // all-empty corpus; avoids division by zero
	}
	slices.SortFunc(s.entries, func(a, b lexicalEntry) int {
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})
}
