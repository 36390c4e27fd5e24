package retrieval

import (
	"fmt"

	"github.com/poiesic/notegraph/index"
)

// Config holds the tunable parameters of the retrieval orchestrator.
// The fusion split and expansion depth are configuration, not contract;
// the defaults follow the 0.6/0.4 split with depth 2.
type Config struct {
	// FusionWeight is the vector-side weight for hybrid ranking, in [0, 1].
	FusionWeight float64

	// TopK is the default number of documents returned per query.
	TopK int

	// SeedCount is how many top hybrid results seed graph expansion.
	SeedCount int

	// GraphDepth is the expansion depth for the graph strategy.
	GraphDepth int

	// FullTopK and FullDepth are the larger defaults of the full strategy.
	FullTopK  int
	FullDepth int

	// MaxHops bounds FindPath searches.
	MaxHops int
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		FusionWeight: index.DefaultFusionWeight,
		TopK:         5,
		SeedCount:    3,
		GraphDepth:   2,
		FullTopK:     10,
		FullDepth:    2,
		MaxHops:      10,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.FusionWeight < 0 || c.FusionWeight > 1 {
		return fmt.Errorf("%w: %v", index.ErrInvalidWeight, c.FusionWeight)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top-k must be positive: %d", c.TopK)
	}
	if c.SeedCount < 1 {
		return fmt.Errorf("seed count must be positive: %d", c.SeedCount)
	}
	if c.GraphDepth < 0 || c.FullDepth < 0 {
		return fmt.Errorf("expansion depth cannot be negative")
	}
	if c.MaxHops < 1 {
		return fmt.Errorf("max hops must be positive: %d", c.MaxHops)
	}
	return nil
}

// Budget bounds the output of a retrieval call. Zero values leave the
// corresponding dimension unbounded (the strategy's k still applies).
// Truncation to budget is a normal outcome, not an error.
type Budget struct {
	// MaxDocuments caps the number of returned documents.
	MaxDocuments int

	// MaxContentBytes caps the cumulative content size of returned
	// documents, as a cost proxy for downstream token budgeting.
	MaxContentBytes int
}

// Options are the per-call retrieval parameters. Zero values fall back
// to the configured defaults for the chosen strategy.
type Options struct {
	Strategy Strategy
	K        int
	Depth    int
	Budget   Budget
}
