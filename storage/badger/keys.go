package badger

import (
	"github.com/poiesic/notegraph/core"
)

// Key prefixes for stored data. Documents are keyed by their stable string
// ID so prefix iteration yields them in ascending ID order.
const (
	documentPrefix = "docrec"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	prefix := documentPrefix + ":"
	buf := make([]byte, 0, len(prefix)+len(id))
	buf = append(buf, prefix...)
	buf = append(buf, id...)
	return buf
}

// documentKeyPrefix returns the prefix shared by all document keys.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}
