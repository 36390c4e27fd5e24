// Package corpus reads raw documents from external sources ahead of
// ingestion. The DirSource implementation walks a Markdown note directory,
// splitting YAML frontmatter from the body the way Obsidian-style vaults
// lay their notes out.
package corpus
