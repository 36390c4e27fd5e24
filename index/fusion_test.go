package index

import (
	"testing"

	"github.com/poiesic/notegraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuse_CombinesBothSources(t *testing.T) {
	// Vector search returns B(0.9), A(0.5); keyword search returns A, C.
	vector := []core.ScoredResult{
		{DocumentId: "B", Score: 0.9, Source: core.SourceVector},
		{DocumentId: "A", Score: 0.5, Source: core.SourceVector},
	}
	keyword := []core.ScoredResult{
		{DocumentId: "A", Score: 3.2, Source: core.SourceKeyword},
		{DocumentId: "C", Score: 1.1, Source: core.SourceKeyword},
	}

	results, err := Fuse(vector, keyword, 0.6)
	require.NoError(t, err)
	require.Len(t, results, 3)

	scores := make(map[core.ID]float64, len(results))
	for _, r := range results {
		scores[r.DocumentId] = r.Score
		assert.Equal(t, core.SourceFused, r.Source)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}

	// Min-max over the vector list maps B to 1.0, A to 0.0; over the
	// keyword list A to 1.0, C to 0.0.
	assert.InDelta(t, 0.6*1.0, scores["B"], 1e-9)
	assert.InDelta(t, 0.6*0.0+0.4*1.0, scores["A"], 1e-9)
	assert.InDelta(t, 0.4*0.0, scores["C"], 1e-9)

	// B (0.6) ranks above A (0.4) above C (0.0).
	assert.Equal(t, core.ID("B"), results[0].DocumentId)
	assert.Equal(t, core.ID("A"), results[1].DocumentId)
	assert.Equal(t, core.ID("C"), results[2].DocumentId)
}

func TestFuse_SingleEntryListNormalizesToOne(t *testing.T) {
	vector := []core.ScoredResult{{DocumentId: "only", Score: 0.123}}

	results, err := Fuse(vector, nil, 0.6)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.6, results[0].Score, 1e-9)
}

func TestFuse_MissingSideContributesZero(t *testing.T) {
	keyword := []core.ScoredResult{
		{DocumentId: "x", Score: 2.0},
		{DocumentId: "y", Score: 1.0},
	}

	results, err := Fuse(nil, keyword, 0.6)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID("x"), results[0].DocumentId)
	assert.InDelta(t, 0.4, results[0].Score, 1e-9)
	assert.InDelta(t, 0.0, results[1].Score, 1e-9)
}

func TestFuse_EmptyInputs(t *testing.T) {
	results, err := Fuse(nil, nil, 0.6)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuse_TiesBrokenByID(t *testing.T) {
	vector := []core.ScoredResult{
		{DocumentId: "beta", Score: 1.0},
		{DocumentId: "alpha", Score: 1.0},
	}

	results, err := Fuse(vector, nil, 1.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Constant list normalizes to 1.0 for every entry; order falls back to id.
	assert.Equal(t, core.ID("alpha"), results[0].DocumentId)
	assert.Equal(t, core.ID("beta"), results[1].DocumentId)
}

func TestFuse_TotalOrderIsDeterministic(t *testing.T) {
	vector := []core.ScoredResult{
		{DocumentId: "a", Score: 0.8},
		{DocumentId: "b", Score: 0.4},
		{DocumentId: "c", Score: 0.2},
	}
	keyword := []core.ScoredResult{
		{DocumentId: "d", Score: 5.0},
		{DocumentId: "b", Score: 2.0},
	}

	first, err := Fuse(vector, keyword, 0.6)
	require.NoError(t, err)

	for range 10 {
		again, err := Fuse(vector, keyword, 0.6)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFuse_InvalidWeight(t *testing.T) {
	_, err := Fuse(nil, nil, -0.1)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = Fuse(nil, nil, 1.1)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}
