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


// Package ingestion moves corpus entries into the document store.
//
// The Pipeline reads entries from a corpus.Source, skips documents whose
// content fingerprint is unchanged, and embeds the rest in parallel
// batches on an ants worker pool before upserting them. Batch failures
// are logged and reported rather than aborting the run, so one bad
// document cannot sink a large re-index.
package ingestion
