package retrieval

import "fmt"

// Strategy selects how a query is answered. The set is closed: dispatch
// over it is an exhaustive switch, so adding a strategy is a
// compile-time-checked change.
type Strategy int

const (
	// StrategyVector uses the similarity index only.
	StrategyVector Strategy = iota + 1
	// StrategyKeyword uses the lexical index only.
	StrategyKeyword
	// StrategyHybrid fuses similarity and lexical rankings.
	StrategyHybrid
	// StrategyGraph expands hybrid seeds through the link graph.
	StrategyGraph
	// StrategyFull is the exhaustive variant of StrategyGraph, with a
	// larger default k and depth.
	StrategyFull
)

// String returns the strategy tag used on the CLI and in logs.
func (s Strategy) String() string {
	switch s {
	case StrategyVector:
		return "vector"
	case StrategyKeyword:
		return "keyword"
	case StrategyHybrid:
		return "hybrid"
	case StrategyGraph:
		return "graph"
	case StrategyFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy tag to its Strategy value.
func ParseStrategy(tag string) (Strategy, error) {
	switch tag {
	case "vector":
		return StrategyVector, nil
	case "keyword":
		return StrategyKeyword, nil
	case "hybrid":
		return StrategyHybrid, nil
	case "graph":
		return StrategyGraph, nil
	case "full":
		return StrategyFull, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, tag)
	}
}
