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

// Package disk provides a Store backed by a local directory. Entry IDs are
// the normalized paths themselves; the filesystem has no separate identity.
package disk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/vpath"
	"gitlab.com/tozd/go/errors"
)

func init() {
	store.Register("disk", func(ctx context.Context, root string) (store.Store, error) {
		return New(ctx, root)
	})
}

// 💾 Store maps the virtual tree onto a directory on disk.
type Store struct {
	baseDir string
}

// 🏭 New creates a disk store rooted at baseDir, creating it if needed.
func New(ctx context.Context, baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Errorf("creating base directory: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("base_dir", baseDir).Msg("opened disk store")
	return &Store{baseDir: filepath.Clean(baseDir)}, nil
}

// 🔒 absPath maps a virtual path onto the base directory.
func (s *Store) absPath(path string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(vpath.Normalize(path)))
}

func (s *Store) Lookup(ctx context.Context, path string) (*store.Entry, error) {
	path = vpath.Normalize(path)
	info, err := os.Stat(s.absPath(path))
	if os.IsNotExist(err) {
		return nil, errors.Errorf("looking up %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return nil, errors.Errorf("looking up %s: %w", path, err)
	}

	parent, name := vpath.Split(path)
	entry := &store.Entry{
		ID:         path,
		Path:       path,
		Name:       name,
		Kind:       store.KindFile,
		ParentPath: parent,
		UpdatedAt:  info.ModTime(),
	}
	if info.IsDir() {
		entry.Kind = store.KindFolder
	}
	return entry, nil
}

func (s *Store) LookupContent(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(s.absPath(path))
	if os.IsNotExist(err) {
		return "", errors.Errorf("looking up content of %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (s *Store) CreateFile(ctx context.Context, parentPath, name, content string) (*store.Entry, error) {
	path := vpath.Join(parentPath, name)
	if err := s.writeFileAtomic(path, []byte(content)); err != nil {
		return nil, err
	}
	return s.Lookup(ctx, path)
}

func (s *Store) CreateFolder(ctx context.Context, parentPath, name string) (*store.Entry, error) {
	path := vpath.Join(parentPath, name)
	if err := os.MkdirAll(s.absPath(path), 0755); err != nil {
		return nil, errors.Errorf("creating folder %s: %w", path, err)
	}
	return s.Lookup(ctx, path)
}

func (s *Store) UpdateContent(ctx context.Context, path, content string) error {
	if _, err := os.Stat(s.absPath(path)); os.IsNotExist(err) {
		return errors.Errorf("updating content of %s: %w", path, store.ErrNotExist)
	}
	return s.writeFileAtomic(vpath.Normalize(path), []byte(content))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	absPath := s.absPath(id)
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return errors.Errorf("deleting %s: %w", id, store.ErrNotExist)
	}
	if err != nil {
		return errors.Errorf("deleting %s: %w", id, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(absPath); err != nil {
			return errors.Errorf("removing folder %s: %w", id, err)
		}
		return nil
	}
	if err := os.Remove(absPath); err != nil {
		return errors.Errorf("removing file %s: %w", id, err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so readers never see a
// half-written file.
func (s *Store) writeFileAtomic(path string, content []byte) error {
	absPath := s.absPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
