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

// Package memory provides an in-memory Store, used as the default test
// double and as an embedded backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/vpath"
	"gitlab.com/tozd/go/errors"
)

func init() {
	store.Register("memory", func(ctx context.Context, root string) (store.Store, error) {
		return New(), nil
	})
}

// 🧠 Store keeps the whole tree in a path-keyed map.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*store.Entry // normalized path -> entry
	nextID  int
}

// 🏭 New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]*store.Entry),
	}
}

func (s *Store) Lookup(ctx context.Context, path string) (*store.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[vpath.Normalize(path)]
	if !ok {
		return nil, errors.Errorf("looking up %s: %w", path, store.ErrNotExist)
	}
	cp := *entry
	return &cp, nil
}

func (s *Store) LookupContent(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[vpath.Normalize(path)]
	if !ok || entry.Kind != store.KindFile {
		return "", errors.Errorf("looking up content of %s: %w", path, store.ErrNotExist)
	}
	return entry.Content, nil
}

func (s *Store) CreateFile(ctx context.Context, parentPath, name, content string) (*store.Entry, error) {
	return s.create(parentPath, name, store.KindFile, content)
}

func (s *Store) CreateFolder(ctx context.Context, parentPath, name string) (*store.Entry, error) {
	return s.create(parentPath, name, store.KindFolder, "")
}

func (s *Store) create(parentPath, name string, kind store.EntryKind, content string) (*store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := vpath.Join(parentPath, name)
	if _, ok := s.entries[path]; ok {
		return nil, errors.Errorf("creating %s: entry already exists", path)
	}

	now := time.Now()
	s.nextID++
	entry := &store.Entry{
		ID:         fmt.Sprintf("mem-%d", s.nextID),
		Path:       path,
		Name:       name,
		Kind:       kind,
		ParentPath: vpath.Normalize(parentPath),
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.entries[path] = entry

	cp := *entry
	return &cp, nil
}

func (s *Store) UpdateContent(ctx context.Context, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[vpath.Normalize(path)]
	if !ok || entry.Kind != store.KindFile {
		return errors.Errorf("updating content of %s: %w", path, store.ErrNotExist)
	}
	entry.Content = content
	entry.UpdatedAt = time.Now()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for path, entry := range s.entries {
		if entry.ID == id {
			delete(s.entries, path)
			return nil
		}
	}
	return errors.Errorf("deleting entry %s: %w", id, store.ErrNotExist)
}

// 📸 Paths returns a snapshot of every path in the store. Test helper.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.entries))
	for path := range s.entries {
		paths = append(paths, path)
	}
	return paths
}

// 🌱 Seed inserts entries directly, bypassing parent checks. Test helper.
func (s *Store) Seed(entries ...store.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		e := entry
		e.Path = vpath.Normalize(e.Path)
		if e.ID == "" {
			s.nextID++
			e.ID = fmt.Sprintf("mem-%d", s.nextID)
		}
		if e.ParentPath == "" && e.Path != "" {
			e.ParentPath, _ = vpath.Split(e.Path)
		}
		if e.Name == "" {
			_, e.Name = vpath.Split(e.Path)
		}
		s.entries[e.Path] = &e
	}
}
