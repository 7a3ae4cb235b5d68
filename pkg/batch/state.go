// Copyright 2025 walteh LLC
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

package batch

import "github.com/walteh/batchfs/pkg/store"

// 🗃️ operationState is the batch-scoped working set: identity map, existence
// cache, read cache, created-this-batch set, and safe-to-delete set. One is
// created per Process call and cleared when it returns; nothing survives
// across batches.
type operationState struct {
	identity map[string]string          // normalized path -> store id
	existing map[string]store.EntryKind // normalized path -> kind
	absent   map[string]bool            // normalized paths confirmed missing
	reads    map[string]string          // normalized path -> content
	created  map[string]string          // paths created this batch -> id
	safe     map[string]string          // move source -> confirmed target
}

func newOperationState() *operationState {
	return &operationState{
		identity: make(map[string]string),
		existing: make(map[string]store.EntryKind),
		absent:   make(map[string]bool),
		reads:    make(map[string]string),
		created:  make(map[string]string),
		safe:     make(map[string]string),
	}
}

// remember records a live store entry into the identity and existence
// caches, superseding any earlier absence.
func (s *operationState) remember(entry *store.Entry) {
	s.identity[entry.Path] = entry.ID
	s.existing[entry.Path] = entry.Kind
	delete(s.absent, entry.Path)
}

// markCreated records an entry created during this batch.
func (s *operationState) markCreated(entry *store.Entry) {
	s.remember(entry)
	s.created[entry.Path] = entry.ID
}

// kindOf reports the cached kind of a path, consulting entries created this
// batch as well as pre-batch lookups.
func (s *operationState) kindOf(path string) (store.EntryKind, bool) {
	kind, ok := s.existing[path]
	return kind, ok
}

// markAbsent records that a lookup confirmed nothing lives at path.
func (s *operationState) markAbsent(path string) {
	s.absent[path] = true
}

// isAbsent reports whether a path was already confirmed missing this batch.
func (s *operationState) isAbsent(path string) bool {
	return s.absent[path]
}

// idOf returns the cached store id for a path.
func (s *operationState) idOf(path string) (string, bool) {
	if id, ok := s.created[path]; ok {
		return id, true
	}
	id, ok := s.identity[path]
	return id, ok
}

func (s *operationState) cacheRead(path, content string) {
	s.reads[path] = content
}

func (s *operationState) cachedRead(path string) (string, bool) {
	content, ok := s.reads[path]
	return content, ok
}

// markSafe records that content from source has been confirmed present at
// target, authorizing the derived delete of source.
func (s *operationState) markSafe(source, target string) {
	s.safe[source] = target
}

// safeTarget returns the confirmed destination for a move source, if any.
func (s *operationState) safeTarget(source string) (string, bool) {
	target, ok := s.safe[source]
	return target, ok
}

// reset clears every cache. Called on every exit from Process, success or
// error, so no batch state is ever observable afterwards.
func (s *operationState) reset() {
	s.identity = make(map[string]string)
	s.existing = make(map[string]store.EntryKind)
	s.absent = make(map[string]bool)
	s.reads = make(map[string]string)
	s.created = make(map[string]string)
	s.safe = make(map[string]string)
}
