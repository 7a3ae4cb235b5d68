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

package disk_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/store/disk"
)

func newDiskStore(t *testing.T) (context.Context, string, *disk.Store) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := disk.New(ctx, dir)
	require.NoError(t, err)
	return ctx, dir, st
}

// 🧪 TestCreateFileOnDisk verifies files land under the base directory
func TestCreateFileOnDisk(t *testing.T) {
	ctx, dir, st := newDiskStore(t)

	entry, err := st.CreateFile(ctx, "docs", "readme.md", "hello")
	require.NoError(t, err)
	assert.Equal(t, "docs/readme.md", entry.Path)
	assert.Equal(t, "docs/readme.md", entry.ID, "disk entries are identified by path")
	assert.Equal(t, store.KindFile, entry.Kind)

	data, err := os.ReadFile(filepath.Join(dir, "docs", "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

// 🧪 TestFolderKind verifies directories surface as folders
func TestFolderKind(t *testing.T) {
	ctx, _, st := newDiskStore(t)

	entry, err := st.CreateFolder(ctx, "", "docs")
	require.NoError(t, err)
	assert.Equal(t, store.KindFolder, entry.Kind)

	looked, err := st.Lookup(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, store.KindFolder, looked.Kind)
}

// 🧪 TestLookupMissingOnDisk verifies the not-exist sentinel
func TestLookupMissingOnDisk(t *testing.T) {
	ctx, _, st := newDiskStore(t)

	_, err := st.Lookup(ctx, "nope.txt")
	assert.ErrorIs(t, err, store.ErrNotExist)

	_, err = st.LookupContent(ctx, "nope.txt")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

// 🧪 TestUpdateContentOnDisk verifies updates require an existing file
func TestUpdateContentOnDisk(t *testing.T) {
	ctx, _, st := newDiskStore(t)

	_, err := st.CreateFile(ctx, "", "a.txt", "v1")
	require.NoError(t, err)

	require.NoError(t, st.UpdateContent(ctx, "a.txt", "v2"))
	content, err := st.LookupContent(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2", content)

	assert.ErrorIs(t, st.UpdateContent(ctx, "ghost.txt", "x"), store.ErrNotExist)
}

// 🧪 TestDeleteRecursesFolders verifies folder deletes remove the subtree
func TestDeleteRecursesFolders(t *testing.T) {
	ctx, dir, st := newDiskStore(t)

	_, err := st.CreateFile(ctx, "docs/sub", "a.txt", "A")
	require.NoError(t, err)

	folder, err := st.Lookup(ctx, "docs")
	require.NoError(t, err)
	require.NoError(t, st.Delete(ctx, folder.ID))

	_, err = os.Stat(filepath.Join(dir, "docs"))
	assert.True(t, os.IsNotExist(err))
}

// 🧪 TestNoLeftoverTempFiles verifies atomic writes clean up after themselves
func TestNoLeftoverTempFiles(t *testing.T) {
	ctx, dir, st := newDiskStore(t)

	_, err := st.CreateFile(ctx, "", "a.txt", "A")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}
