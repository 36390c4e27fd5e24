package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/notegraph/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, source Source) map[core.ID]Entry {
	t.Helper()
	entries := make(map[core.ID]Entry)
	for entry, err := range source.Documents(context.Background()) {
		require.NoError(t, err)
		entries[entry.Id] = entry
	}
	return entries
}

func TestNewDirSourceRejectsMissingRoot(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewDirSourceRejectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.md", "hello")

	_, err := NewDirSource(filepath.Join(dir, "note.md"))
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestDocumentsWalksMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.md", "alpha body [[beta]]")
	writeFile(t, dir, "nested/beta.md", "beta body")
	writeFile(t, dir, "ignored.txt", "not markdown")
	writeFile(t, dir, ".obsidian/config.md", "hidden dir is skipped")

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	entries := collect(t, source)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha body [[beta]]", entries["alpha"].Content)
	assert.Equal(t, "beta body", entries["beta"].Content)
	assert.Equal(t, filepath.Join(dir, "nested", "beta.md"), entries["beta"].Path)
}

func TestDocumentsParsesFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.md", `---
title: Design Notes
draft: true
tags:
  - storage
  - design
  - storage
---
body text here`)

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	entries := collect(t, source)
	require.Len(t, entries, 1)

	entry := entries["note"]
	assert.Equal(t, "body text here", entry.Content)
	assert.Equal(t, []string{"storage", "design"}, entry.Tags)
	assert.Equal(t, "Design Notes", entry.Frontmatter["title"])
	assert.Equal(t, "true", entry.Frontmatter["draft"])
	assert.NotContains(t, entry.Frontmatter, "tags")
}

func TestDocumentsInvalidFrontmatterFallsBackToBody(t *testing.T) {
	dir := t.TempDir()
	content := "---\n: not yaml [\n---\nbody"
	writeFile(t, dir, "broken.md", content)

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	entries := collect(t, source)
	require.Len(t, entries, 1)
	assert.Equal(t, content, entries["broken"].Content)
	assert.Nil(t, entries["broken"].Frontmatter)
}

func TestDocumentsScalarTags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "note.md", "---\ntags: solo\n---\nbody")

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	entries := collect(t, source)
	assert.Equal(t, []string{"solo"}, entries["note"].Tags)
}

func TestDocumentsRestartable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.md", "a")
	writeFile(t, dir, "beta.md", "b")

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	first := collect(t, source)
	second := collect(t, source)
	assert.Equal(t, first, second)
}

func TestDocumentsEarlyBreak(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.md", "a")
	writeFile(t, dir, "beta.md", "b")

	source, err := NewDirSource(dir)
	require.NoError(t, err)

	count := 0
	for _, err := range source.Documents(context.Background()) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}
