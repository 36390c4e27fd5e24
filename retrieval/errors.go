// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrLexicalIndexRequired is returned when a lexical index is not provided.
	ErrLexicalIndexRequired = errors.New("lexical index required")

	// ErrGraphRequired is returned when a link graph is not provided.
	ErrGraphRequired = errors.New("link graph required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	// Vector-backed strategies cannot run without one.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnknownStrategy indicates a strategy tag outside the closed set.
	ErrUnknownStrategy = errors.New("unknown retrieval strategy")

	// ErrRetrievalFailed wraps a collaborator failure during a query, such
	// as an unavailable embedding provider. Callers opt into degraded
	// strategies explicitly; the engine never falls back silently.
	ErrRetrievalFailed = errors.New("retrieval failed")
)
