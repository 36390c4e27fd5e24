package index

import (
	"context"
	"testing"

	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and trims punctuation",
			text: "Clean Architecture, (again)!",
			want: []string{"clean", "architecture", "again"},
		},
		{
			name: "filters stop words",
			text: "the design of a system",
			want: []string{"design", "system"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "only stop words",
			text: "the a an",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.text))
		})
	}
}

func TestLexicalIndex_Search(t *testing.T) {
	idx := NewLexicalIndex()
	idx.Add("arch", "clean architecture dependency rule layers")
	idx.Add("solid", "solid principles single responsibility dependency inversion")
	idx.Add("patterns", "design patterns factory observer strategy")

	results := idx.Search("dependency inversion", 10)
	require.NotEmpty(t, results)

	// "solid" matches both terms, must rank first.
	assert.Equal(t, core.ID("solid"), results[0].DocumentId)
	for _, r := range results {
		assert.Equal(t, core.SourceKeyword, r.Source)
		assert.Positive(t, r.Score)
	}

	// "patterns" shares no query term and must be absent.
	for _, r := range results {
		assert.NotEqual(t, core.ID("patterns"), r.DocumentId)
	}
}

func TestLexicalIndex_UnknownTokensScoreZero(t *testing.T) {
	idx := NewLexicalIndex()
	idx.Add("a", "completely unrelated content")

	results := idx.Search("quantum chromodynamics", 10)
	assert.Empty(t, results)
}

func TestLexicalIndex_EmptyCorpus(t *testing.T) {
	idx := NewLexicalIndex()
	assert.Empty(t, idx.Search("anything", 10))
}

func TestLexicalIndex_EmptyQuery(t *testing.T) {
	idx := NewLexicalIndex()
	idx.Add("a", "some content here")
	assert.Empty(t, idx.Search("", 10))
	assert.Empty(t, idx.Search("the of and", 10))
}

func TestLexicalIndex_LimitAndDeterminism(t *testing.T) {
	idx := NewLexicalIndex()
	idx.Add("b", "shared term")
	idx.Add("a", "shared term")
	idx.Add("c", "shared term")

	first := idx.Search("shared", 2)
	require.Len(t, first, 2)
	// Equal scores, ties by ascending id.
	assert.Equal(t, core.ID("a"), first[0].DocumentId)
	assert.Equal(t, core.ID("b"), first[1].DocumentId)

	second := idx.Search("shared", 2)
	assert.Equal(t, first, second)
}

func TestLexicalIndex_AddReplaces(t *testing.T) {
	idx := NewLexicalIndex()
	idx.Add("a", "original wording")
	idx.Add("a", "replacement text")
	assert.Equal(t, 1, idx.Len())

	assert.Empty(t, idx.Search("original wording", 10))
	assert.NotEmpty(t, idx.Search("replacement", 10))
}

func TestLexicalIndex_Rebuild(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = repo.UpsertDocuments(ctx,
		&core.Document{Id: "a", Content: "clean architecture boundaries"},
		&core.Document{Id: "b", Content: "database migrations tooling"},
	)
	require.NoError(t, err)

	idx := NewLexicalIndex()
	require.NoError(t, idx.Rebuild(ctx, repo))
	assert.Equal(t, 2, idx.Len())

	results := idx.Search("architecture", 10)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID("a"), results[0].DocumentId)
}
