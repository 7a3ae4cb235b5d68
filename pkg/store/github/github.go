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

// Package github provides a Store backed by a GitHub repository through the
// contents API. Entry IDs are virtual paths; blob SHAs are resolved per
// mutation because the API requires the current SHA for updates and deletes.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/vpath"
	"gitlab.com/tozd/go/errors"
)

func init() {
	store.Register("github", func(ctx context.Context, root string) (store.Store, error) {
		return New(ctx, root)
	})
}

// 🐙 Store maps the virtual tree onto a GitHub repository branch.
type Store struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	logger zerolog.Logger
}

// 🏭 New creates a GitHub store for "owner/repo" or "owner/repo@branch".
// Authentication comes from GITHUB_TOKEN when set.
func New(ctx context.Context, root string) (*Store, error) {
	repo, branch := root, ""
	if at := strings.LastIndex(root, "@"); at >= 0 {
		repo, branch = root[:at], root[at+1:]
	}

	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("invalid repository format: %s", root)
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	return &Store{
		client: client,
		owner:  parts[0],
		repo:   parts[1],
		branch: branch,
		logger: *zerolog.Ctx(ctx),
	}, nil
}

// 🔍 getContents wraps the contents API, translating 404 into ErrNotExist.
func (s *Store) getContents(ctx context.Context, path string) (*github.RepositoryContent, []*github.RepositoryContent, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	file, dir, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil, errors.Errorf("looking up %s: %w", path, store.ErrNotExist)
		}
		return nil, nil, errors.Errorf("getting contents of %s: %w", path, err)
	}
	return file, dir, nil
}

func (s *Store) Lookup(ctx context.Context, path string) (*store.Entry, error) {
	path = vpath.Normalize(path)
	file, _, err := s.getContents(ctx, path)
	if err != nil {
		return nil, err
	}

	parent, name := vpath.Split(path)
	entry := &store.Entry{
		ID:         path,
		Path:       path,
		Name:       name,
		Kind:       store.KindFolder,
		ParentPath: parent,
	}
	if file != nil {
		entry.Kind = store.KindFile
	}
	return entry, nil
}

func (s *Store) LookupContent(ctx context.Context, path string) (string, error) {
	path = vpath.Normalize(path)
	file, _, err := s.getContents(ctx, path)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", errors.Errorf("looking up content of %s: %w", path, store.ErrNotExist)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", errors.Errorf("decoding content of %s: %w", path, err)
	}
	return content, nil
}

func (s *Store) CreateFile(ctx context.Context, parentPath, name, content string) (*store.Entry, error) {
	path := vpath.Join(parentPath, name)
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("batchfs: create %s", path)),
		Content: []byte(content),
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	s.logger.Debug().Str("path", path).Msg("creating file via contents API")
	if _, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts); err != nil {
		return nil, errors.Errorf("creating file %s: %w", path, err)
	}

	parent, _ := vpath.Split(path)
	return &store.Entry{
		ID:         path,
		Path:       path,
		Name:       name,
		Kind:       store.KindFile,
		ParentPath: parent,
		Content:    content,
	}, nil
}

// CreateFolder creates a .gitkeep placeholder; git does not track empty
// directories.
func (s *Store) CreateFolder(ctx context.Context, parentPath, name string) (*store.Entry, error) {
	path := vpath.Join(parentPath, name)
	if _, err := s.CreateFile(ctx, path, ".gitkeep", ""); err != nil {
		return nil, errors.Errorf("creating folder %s: %w", path, err)
	}

	return &store.Entry{
		ID:         path,
		Path:       path,
		Name:       name,
		Kind:       store.KindFolder,
		ParentPath: vpath.Normalize(parentPath),
	}, nil
}

func (s *Store) UpdateContent(ctx context.Context, path, content string) error {
	path = vpath.Normalize(path)
	file, _, err := s.getContents(ctx, path)
	if err != nil {
		return err
	}
	if file == nil {
		return errors.Errorf("updating content of %s: %w", path, store.ErrNotExist)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("batchfs: update %s", path)),
		Content: []byte(content),
		SHA:     file.SHA,
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	if _, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts); err != nil {
		return errors.Errorf("updating file %s: %w", path, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	path := vpath.Normalize(id)
	file, dir, err := s.getContents(ctx, path)
	if err != nil {
		return err
	}

	// Deleting a folder means deleting every file under it
	if file == nil {
		for _, child := range dir {
			if err := s.Delete(ctx, child.GetPath()); err != nil {
				return err
			}
		}
		return nil
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("batchfs: delete %s", path)),
		SHA:     file.SHA,
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	if _, _, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, path, opts); err != nil {
		return errors.Errorf("deleting file %s: %w", path, err)
	}
	return nil
}
