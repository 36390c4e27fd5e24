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


// Package retrieval orchestrates multi-strategy document retrieval.
//
// The Retriever type dispatches a query to one of five strategies:
//
//   - vector: cosine similarity over document embeddings
//   - keyword: BM25 lexical ranking
//   - hybrid: min-max normalized fusion of vector and keyword rankings
//   - graph: hybrid seeds expanded through the wikilink graph
//   - full: graph retrieval with wider defaults for deep exploration
//
// Results are hydrated from the document store, bounded by the caller's
// budget and annotated with per-source metrics. Retrieval is deterministic:
// the same query against the same index contents always yields the same
// ranked results.
package retrieval
