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

package batchfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/batchfs/pkg/batch"
	"github.com/walteh/batchfs/pkg/batchfile"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestLoadYAML verifies the YAML schema maps onto operations
func TestLoadYAML(t *testing.T) {
	ctx := testContext(t)

	path := writeTempFile(t, "batch.yaml", `
operations:
  - kind: create
    path: docs/readme.md
    content: hello
  - kind: move
    path: docs/readme.md
    target_path: archive/readme.md
  - kind: check_exists
    path: package.json
    duplicate_check: true
`)

	ops, err := batchfile.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Equal(t, batch.KindCreate, ops[0].Kind)
	assert.Equal(t, "docs/readme.md", ops[0].Path)
	assert.Equal(t, "hello", ops[0].Content)

	assert.Equal(t, batch.KindMove, ops[1].Kind)
	assert.Equal(t, "archive/readme.md", ops[1].TargetPath)

	assert.Equal(t, batch.KindCheckExists, ops[2].Kind)
	assert.True(t, ops[2].DuplicateCheck)
}

// 🧪 TestLoadHCL verifies the block-per-operation HCL form
func TestLoadHCL(t *testing.T) {
	ctx := testContext(t)

	path := writeTempFile(t, "batch.hcl", `
operation "create" {
  path    = "docs/readme.md"
  content = "hello"
}

operation "delete" {
  path = "scratch/tmp.txt"
}
`)

	ops, err := batchfile.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, batch.KindCreate, ops[0].Kind)
	assert.Equal(t, "hello", ops[0].Content)
	assert.Equal(t, batch.KindDelete, ops[1].Kind)
	assert.Equal(t, "scratch/tmp.txt", ops[1].Path)
}

// 🧪 TestLoadRejectsMalformed covers the validation failure modes
func TestLoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     string
		errContains string
	}{
		{
			name:        "unknown_kind",
			filename:    "batch.yaml",
			content:     "operations:\n  - kind: frobnicate\n    path: x\n",
			errContains: "unknown kind",
		},
		{
			name:        "missing_path",
			filename:    "batch.yaml",
			content:     "operations:\n  - kind: create\n",
			errContains: "path is required",
		},
		{
			name:        "empty_batch",
			filename:    "batch.yaml",
			content:     "operations: []\n",
			errContains: "no operations",
		},
		{
			name:        "unknown_yaml_field",
			filename:    "batch.yaml",
			content:     "operations:\n  - kind: create\n    path: x\n    tarket_path: y\n",
			errContains: "parsing YAML",
		},
		{
			name:        "hcl_syntax_error",
			filename:    "batch.hcl",
			content:     "operation \"create\" {\n  path = \n}\n",
			errContains: "HCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := writeTempFile(t, tt.filename, tt.content)

			_, err := batchfile.Load(ctx, path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

// 🧪 TestLoadUnsupportedExtension verifies unknown extensions fail fast
func TestLoadUnsupportedExtension(t *testing.T) {
	ctx := testContext(t)
	path := writeTempFile(t, "batch.toml", "[ops]\n")

	_, err := batchfile.Load(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser registered")
}

// 🧪 TestGetParser verifies extension routing
func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		found    bool
	}{
		{"ops.yaml", true},
		{"ops.yml", true},
		{"ops.hcl", true},
		{"ops.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			parser := batchfile.GetParser(tt.filename)
			if tt.found {
				assert.NotNil(t, parser)
			} else {
				assert.Nil(t, parser)
			}
		})
	}
}
