package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the document model. These are hand-written against the
// mus-go primitives; field order is part of the stored format and must not
// change without a reindex.
var (
	IDMUS       = idMUS{}
	DocumentMUS = documentMUS{}

	embeddingMUS   = ord.NewSliceSer[float32](raw.Float32)
	tagsMUS        = ord.NewSliceSer[string](ord.String)
	frontmatterMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

// idMUS serializes an ID as a length-prefixed string.
type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) int {
	return ord.String.Marshal(string(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	str, n, err := ord.String.Unmarshal(bs)
	return ID(str), n, err
}

func (s idMUS) Size(id ID) int {
	return ord.String.Size(string(id))
}

func (s idMUS) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

// documentMUS serializes a Document. Timestamps are stored as Unix
// microseconds.
type documentMUS struct{}

func (s documentMUS) Marshal(doc Document, bs []byte) int {
	n := IDMUS.Marshal(doc.Id, bs)
	n += ord.String.Marshal(doc.Path, bs[n:])
	n += ord.String.Marshal(doc.Content, bs[n:])
	n += embeddingMUS.Marshal(doc.Embedding, bs[n:])
	n += tagsMUS.Marshal(doc.Tags, bs[n:])
	n += frontmatterMUS.Marshal(doc.Frontmatter, bs[n:])
	n += varint.Uint64.Marshal(doc.Fingerprint, bs[n:])
	n += varint.Int64.Marshal(doc.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(doc.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (Document, int, error) {
	var doc Document
	id, n, err := IDMUS.Unmarshal(bs)
	if err != nil {
		return doc, n, err
	}
	doc.Id = id

	path, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Path = path

	content, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Content = content

	embedding, n1, err := embeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Embedding = embedding

	tags, n1, err := tagsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Tags = tags

	frontmatter, n1, err := frontmatterMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Frontmatter = frontmatter

	fingerprint, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Fingerprint = fingerprint

	insertedAt, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.InsertedAt = time.UnixMicro(insertedAt).UTC()

	updatedAt, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.UpdatedAt = time.UnixMicro(updatedAt).UTC()

	return doc, n, nil
}

func (s documentMUS) Size(doc Document) int {
	size := IDMUS.Size(doc.Id)
	size += ord.String.Size(doc.Path)
	size += ord.String.Size(doc.Content)
	size += embeddingMUS.Size(doc.Embedding)
	size += tagsMUS.Size(doc.Tags)
	size += frontmatterMUS.Size(doc.Frontmatter)
	size += varint.Uint64.Size(doc.Fingerprint)
	size += varint.Int64.Size(doc.InsertedAt.UnixMicro())
	size += varint.Int64.Size(doc.UpdatedAt.UnixMicro())
	return size
}

func (s documentMUS) Skip(bs []byte) (int, error) {
	n, err := IDMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	for range 2 {
		n1, err := ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	n1, err := embeddingMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = tagsMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = frontmatterMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	for range 2 {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
