package retrieval

import (
	"github.com/poiesic/notegraph/core"
)

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate results at each stage.
type RetrievalMonitor interface {
	Start(query string, strategy Strategy)
	AfterVectorSearch(results []core.ScoredResult)
	AfterKeywordSearch(results []core.ScoredResult)
	AfterFusion(results []core.ScoredResult)
	AfterGraphExpansion(seeds, discovered []core.ID)
	Finish(rc *core.RetrievalContext)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Strategy)               {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ScoredResult)  {}
func (n *noopMonitor) AfterKeywordSearch(_ []core.ScoredResult) {}
func (n *noopMonitor) AfterFusion(_ []core.ScoredResult)        {}
func (n *noopMonitor) AfterGraphExpansion(_, _ []core.ID)       {}
func (n *noopMonitor) Finish(_ *core.RetrievalContext)          {}
