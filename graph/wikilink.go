package graph

import (
	"regexp"
	"strings"
)

// LinkResolver extracts the literal set of referenced target identifiers
// from raw document content. It is a pure text-to-ids function; any
// conforming implementation can drive the graph builder.
type LinkResolver func(content string) []string

var wikilinkPattern = regexp.MustCompile(`\[\[(.*?)\]\]`)

// WikilinkResolver extracts [[wikilink]] targets from content. Aliased
// links ([[target|alias]]) resolve to the target; heading anchors
// ([[target#section]]) are stripped. Duplicate targets are collapsed,
// preserving first-occurrence order.
func WikilinkResolver(content string) []string {
	matches := wikilinkPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		target := m[1]
		if i := strings.IndexByte(target, '|'); i >= 0 {
			target = target[:i]
		}
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		targets = append(targets, target)
	}
	return targets
}
