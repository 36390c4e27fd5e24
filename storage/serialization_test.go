package storage

import (
	"testing"
	"time"

	"github.com/poiesic/notegraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	doc := &core.Document{
		Id:        "notes/clean_architecture",
		Path:      "notes/clean_architecture.md",
		Content:   "Dependencies point inward. See [[solid_principles]].",
		Embedding: []float32{0.1, -0.25, 0.98},
		Tags:      []string{"architecture", "design"},
		Frontmatter: map[string]string{
			"title":  "Clean Architecture",
			"author": "rcm",
		},
		Fingerprint: core.FingerprintContent("Dependencies point inward. See [[solid_principles]]."),
		InsertedAt:  now.Add(-time.Hour),
		UpdatedAt:   now,
	}

	data := MarshalDocument(doc)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentRoundTrip_Minimal(t *testing.T) {
	doc := &core.Document{
		Id:      "bare",
		Content: "no embedding yet",
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Content, got.Content)
	assert.Empty(t, got.Embedding)
	assert.Empty(t, got.Tags)
}

func TestUnmarshalDocument_Truncated(t *testing.T) {
	doc := &core.Document{Id: "x", Content: "some content"}
	data := MarshalDocument(doc)

	_, err := UnmarshalDocument(data[:len(data)/2])
	assert.Error(t, err)
}

func TestIDRoundTrip(t *testing.T) {
	id := core.ID("notes/design/solid_principles")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
