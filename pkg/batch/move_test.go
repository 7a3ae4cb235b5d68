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

package batch_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/batchfs/pkg/batch"
	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/store/memory"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestMovePositive verifies content lands at the target and the source
// is deleted only after the destination is confirmed
func TestMovePositive(t *testing.T) {
	ctx, st, processor := newTestEnv(t)
	st.Seed(store.Entry{Path: "src/app.ts", Kind: store.KindFile, Content: "console.log(1)"})

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindMove, Path: "src/app.ts", TargetPath: "lib/app.ts"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, results[1].Success, results[1].Message)
	assert.Equal(t, batch.KindDelete, results[1].Kind)
	assert.Equal(t, batch.KindMove, results[1].Origin)

	content, err := st.LookupContent(ctx, "lib/app.ts")
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", content)

	_, err = st.Lookup(ctx, "src/app.ts")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

// 🧪 TestMoveNegative verifies a failed destination write refuses the
// derived delete and leaves the source intact
func TestMoveNegative(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	mem := memory.New()
	mem.Seed(store.Entry{Path: "src/app.ts", Kind: store.KindFile, Content: "console.log(1)"})
	flaky := &failingCreateStore{Store: mem}
	processor := batch.New(flaky)

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindMove, Path: "src/app.ts", TargetPath: "lib/app.ts"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success, "move must fail when destination creation fails")
	assert.ErrorIs(t, results[0].Err, batch.ErrStore)

	assert.False(t, results[1].Success, "derived delete must be refused")
	assert.ErrorIs(t, results[1].Err, batch.ErrSafetyCheck)

	// the source must still exist
	content, err := mem.LookupContent(ctx, "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", content)
}

// failingCreateStore rejects every file creation
type failingCreateStore struct {
	store.Store
}

func (s *failingCreateStore) CreateFile(ctx context.Context, parentPath, name, content string) (*store.Entry, error) {
	return nil, errors.New("simulated create failure")
}

// 🧪 TestMoveUsesReadCache verifies an explicit read earlier in the batch
// feeds the move without a second content lookup
func TestMoveUsesReadCache(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	mem := memory.New()
	mem.Seed(store.Entry{Path: "a.txt", Kind: store.KindFile, Content: "cached"})
	counting := &countingContentStore{Store: mem}
	processor := batch.New(counting)

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindRead, Path: "a.txt"},
		{Kind: batch.KindMove, Path: "a.txt", TargetPath: "b.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.True(t, result.Success, result.Message)
	}

	// one for the read, one for the delete-time destination confirmation;
	// the move itself must hit the cache
	assert.Equal(t, 2, counting.contentLookups)
}

// countingContentStore counts content lookups
type countingContentStore struct {
	store.Store
	contentLookups int
}

func (s *countingContentStore) LookupContent(ctx context.Context, path string) (string, error) {
	s.contentLookups++
	return s.Store.LookupContent(ctx, path)
}

// 🧪 TestMoveDestinationExists verifies a move onto an existing destination
// skips the write but still releases the source
func TestMoveDestinationExists(t *testing.T) {
	ctx, st, processor := newTestEnv(t)
	st.Seed(
		store.Entry{Path: "a.txt", Kind: store.KindFile, Content: "from"},
		store.Entry{Path: "b.txt", Kind: store.KindFile, Content: "already-there"},
	)

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindMove, Path: "a.txt", TargetPath: "b.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, results[1].Success, results[1].Message)

	// destination content untouched, source gone
	content, err := st.LookupContent(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "already-there", content)

	_, err = st.Lookup(ctx, "a.txt")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

// 🧪 TestCopyKeepsSource verifies copy never emits a delete
func TestCopyKeepsSource(t *testing.T) {
	ctx, st, processor := newTestEnv(t)
	st.Seed(store.Entry{Path: "a.txt", Kind: store.KindFile, Content: "dup"})

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindCopy, Path: "a.txt", TargetPath: "backup/a.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].Message)

	for _, path := range []string{"a.txt", "backup/a.txt"} {
		content, err := st.LookupContent(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, "dup", content, path)
	}
}

// 🧪 TestMoveValidation covers malformed transfers
func TestMoveValidation(t *testing.T) {
	tests := []struct {
		name        string
		op          batch.FileOperation
		expectedErr error
	}{
		{
			name:        "missing_target",
			op:          batch.FileOperation{Kind: batch.KindMove, Path: "a.txt"},
			expectedErr: batch.ErrValidation,
		},
		{
			name:        "same_source_and_target",
			op:          batch.FileOperation{Kind: batch.KindMove, Path: "a.txt", TargetPath: "/a.txt/"},
			expectedErr: batch.ErrValidation,
		},
		{
			name:        "missing_source",
			op:          batch.FileOperation{Kind: batch.KindMove, Path: "ghost.txt", TargetPath: "b.txt"},
			expectedErr: batch.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, st, processor := newTestEnv(t)
			st.Seed(store.Entry{Path: "a.txt", Kind: store.KindFile, Content: "A"})

			results, err := processor.Process(ctx, []batch.FileOperation{tt.op})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.False(t, results[0].Success)
			assert.ErrorIs(t, results[0].Err, tt.expectedErr)
		})
	}
}

// 🧪 TestMoveDedup verifies a source path is moved at most once per batch
func TestMoveDedup(t *testing.T) {
	ctx, st, processor := newTestEnv(t)
	st.Seed(store.Entry{Path: "a.txt", Kind: store.KindFile, Content: "A"})

	results, err := processor.Process(ctx, []batch.FileOperation{
		{Kind: batch.KindMove, Path: "a.txt", TargetPath: "b.txt"},
		{Kind: batch.KindMove, Path: "/a.txt", TargetPath: "c.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3) // two moves plus one derived delete

	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, results[1].Success, results[1].Message)
	assert.Contains(t, results[1].Message, "skipped duplicate")

	_, err = st.LookupContent(ctx, "b.txt")
	assert.NoError(t, err)
	_, err = st.Lookup(ctx, "c.txt")
	assert.ErrorIs(t, err, store.ErrNotExist)
}
