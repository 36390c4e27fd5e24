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


package index

import "errors"

var (
	// ErrDimensionMismatch indicates an embedding whose dimensionality does
	// not match the index. Mismatched vectors are rejected, never truncated
	// or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrZeroVector indicates an embedding with zero magnitude, which has
	// no defined cosine similarity.
	ErrZeroVector = errors.New("zero-magnitude embedding")

	// ErrInvalidWeight indicates a fusion weight outside [0, 1].
	ErrInvalidWeight = errors.New("fusion weight must be in [0, 1]")

	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")
)
