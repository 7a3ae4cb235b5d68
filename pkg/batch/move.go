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

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/store"
	"github.com/walteh/batchfs/pkg/vpath"
	"gitlab.com/tozd/go/errors"
)

// 🚚 processTransfer runs a move or copy. After it returns, either content
// exists at the target path (and for moves the source is marked safe to
// delete), or the result reports failure with no side effect beyond a
// possibly-created destination.
//
// Moves additionally return a derived delete operation carrying both paths.
// The derived delete is emitted as soon as the source is known to exist;
// whether it may actually run is decided by the safe-to-delete marking,
// which happens only once destination content is confirmed.
func (p *Processor) processTransfer(ctx context.Context, st *operationState, op FileOperation) (Result, *FileOperation, error) {
	logger := zerolog.Ctx(ctx)

	if op.skipDuplicate {
		return succeed(op, fmt.Sprintf("skipped duplicate %s of %s", op.Kind, op.Path)), nil, nil
	}
	if op.Path == "" || op.TargetPath == "" {
		return fail(op, errors.Errorf("%s requires a source and a target path: %w", op.Kind, ErrValidation)), nil, nil
	}
	if op.Path == op.TargetPath {
		return fail(op, errors.Errorf("%s source and target are the same path: %w", op.Kind, ErrValidation)), nil, nil
	}

	// The source must exist in the live store before anything else; its id
	// is snapshotted now so the derived delete can cross-check it later.
	source, err := p.store.Lookup(ctx, op.Path)
	if errors.Is(err, store.ErrNotExist) {
		return fail(op, errors.Errorf("%s source %s: %w", op.Kind, op.Path, ErrNotFound)), nil, nil
	}
	if err != nil {
		return Result{}, nil, errors.Errorf("looking up %s source %s: %w", op.Kind, op.Path, err)
	}
	st.remember(source)

	var derived *FileOperation
	if op.Kind == KindMove {
		derived = &FileOperation{
			Kind:       KindDelete,
			Path:       op.Path,
			TargetPath: op.TargetPath,
			Origin:     KindMove,
		}
	}

	// If the destination already holds content, the desired end state holds;
	// a move still releases its source.
	if p.targetExists(ctx, st, op.TargetPath) {
		if op.Kind == KindMove {
			st.markSafe(op.Path, op.TargetPath)
			derived.SafeToDelete = true
			return succeed(op, fmt.Sprintf("destination %s already exists, source scheduled for deletion", op.TargetPath)), derived, nil
		}
		return succeed(op, fmt.Sprintf("destination %s already exists", op.TargetPath)), derived, nil
	}

	content, ok := p.resolveContent(ctx, st, op)
	if !ok {
		return fail(op, errors.Errorf("could not obtain content of %s by read cache, lookup, or operation payload: %w", op.Path, ErrNotFound)), derived, nil
	}

	parent, name := vpath.Split(op.TargetPath)
	if err := p.ensureFolder(ctx, st, parent); err != nil {
		if errors.Is(err, ErrValidation) {
			return fail(op, err), derived, nil
		}
		return fail(op, errors.Errorf("%w: ensuring parent of %s: %w", ErrStore, op.TargetPath, err)), derived, nil
	}

	created, err := p.store.CreateFile(ctx, parent, name, content)
	if err != nil {
		// the derived delete stays unauthorized, so the source survives
		return fail(op, errors.Errorf("%w: creating destination %s: %w", ErrStore, op.TargetPath, err)), derived, nil
	}
	st.markCreated(created)
	st.cacheRead(op.TargetPath, content)

	if op.Kind == KindMove {
		st.markSafe(op.Path, op.TargetPath)
		derived.SafeToDelete = true
		logger.Debug().Str("source", op.Path).Str("target", op.TargetPath).Msg("move destination written, source scheduled for deletion")
		return succeed(op, fmt.Sprintf("moved content of %s to %s, source scheduled for deletion", op.Path, op.TargetPath)), derived, nil
	}
	return succeed(op, fmt.Sprintf("copied %s to %s", op.Path, op.TargetPath)), nil, nil
}

// targetExists checks the batch caches before the live store.
func (p *Processor) targetExists(ctx context.Context, st *operationState, path string) bool {
	if _, ok := st.kindOf(path); ok {
		return true
	}
	entry, err := p.store.Lookup(ctx, path)
	if err != nil {
		return false
	}
	st.remember(entry)
	return true
}

// resolveContent obtains the content to transfer, preferring the read cache
// populated by an explicit read earlier in the batch, then a fresh lookup,
// then content supplied on the operation itself.
func (p *Processor) resolveContent(ctx context.Context, st *operationState, op FileOperation) (string, bool) {
	if content, ok := st.cachedRead(op.Path); ok {
		return content, true
	}
	if content, err := p.store.LookupContent(ctx, op.Path); err == nil {
		st.cacheRead(op.Path, content)
		return content, true
	}
	if op.Content != "" {
		return op.Content, true
	}
	return "", false
}
