package index

import (
	"github.com/poiesic/notegraph/core"
)

// DefaultFusionWeight is the default vector-side weight for hybrid
// ranking; the keyword side receives the complement.
const DefaultFusionWeight = 0.6

// Fuse merges a vector-ranked list and a keyword-ranked list into a
// single ranking. Each list's scores are min-max normalized to [0, 1]
// independently (a single-entry or constant list normalizes to 1.0), then
// combined per document as
//
//	fused = weight*vectorNorm + (1-weight)*keywordNorm
//
// where a document missing from one list contributes 0 for that term.
// The result is sorted descending by fused score with ties broken by
// ascending ID, forming a total order over the union of both lists.
// A weight outside [0, 1] signals ErrInvalidWeight.
func Fuse(vector, keyword []core.ScoredResult, weight float64) ([]core.ScoredResult, error) {
	if weight < 0 || weight > 1 {
		return nil, ErrInvalidWeight
	}

	vectorNorm := normalizeScores(vector)
	keywordNorm := normalizeScores(keyword)

	fused := make(map[core.ID]float64, len(vectorNorm)+len(keywordNorm))
	for id, score := range vectorNorm {
		fused[id] += weight * score
	}
	for id, score := range keywordNorm {
		fused[id] += (1 - weight) * score
	}

	results := make([]core.ScoredResult, 0, len(fused))
	for id, score := range fused {
		results = append(results, core.ScoredResult{
			DocumentId: id,
			Score:      score,
			Source:     core.SourceFused,
		})
	}

	sortScoredResults(results)
	return results, nil
}

// normalizeScores min-max normalizes a ranked list to [0, 1]. When the
// list has a single entry, or all scores are equal, every entry maps to
// 1.0 so a lone result still carries full weight.
func normalizeScores(results []core.ScoredResult) map[core.ID]float64 {
	if len(results) == 0 {
		return nil
	}

	minScore, maxScore := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}

	normalized := make(map[core.ID]float64, len(results))
	spread := maxScore - minScore
	for _, r := range results {
		if spread == 0 {
			normalized[r.DocumentId] = 1.0
		} else {
			normalized[r.DocumentId] = (r.Score - minScore) / spread
		}
	}
	return normalized
}
