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
	"gitlab.com/tozd/go/errors"
)

// 🗑️ processMoveDelete removes a move's source, but only once every safety
// check holds: the path is deletable, the batch marked it safe, and the
// destination content is still present. A refused delete never rolls back
// the destination; at least one copy of the content always survives.
func (p *Processor) processMoveDelete(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if p.guard.isProtected(op.Path) && !op.SafeToDelete {
		return fail(op, errors.Errorf("refusing to delete %s: %w", op.Path, ErrProtectedPath)), nil
	}

	target, ok := st.safeTarget(op.Path)
	if !ok {
		return fail(op, errors.Errorf("source %s was never marked safe to delete: %w", op.Path, ErrSafetyCheck)), nil
	}
	if op.TargetPath != "" && target != op.TargetPath {
		return fail(op, errors.Errorf("recorded destination %s does not match %s: %w", target, op.TargetPath, ErrSafetyCheck)), nil
	}

	// Confirm the destination still holds content before touching the
	// source. Any doubt refuses the delete.
	if _, err := p.store.LookupContent(ctx, target); err != nil {
		return fail(op, errors.Errorf("destination %s content could not be confirmed: %w", target, ErrSafetyCheck)), nil
	}

	entry, err := p.store.Lookup(ctx, op.Path)
	if errors.Is(err, store.ErrNotExist) {
		// someone else already removed it; the desired end state holds
		return succeed(op, fmt.Sprintf("source %s already removed", op.Path)), nil
	}
	if err != nil {
		return fail(op, errors.Errorf("%w: looking up %s: %w", ErrStore, op.Path, err)), nil
	}

	// Cross-check against the id snapshotted when the move started; a
	// different id means the path was replaced mid-batch.
	if snapshot, ok := st.idOf(op.Path); ok && snapshot != entry.ID {
		return fail(op, errors.Errorf("source %s changed since the move started: %w", op.Path, ErrSafetyCheck)), nil
	}

	if err := p.store.Delete(ctx, entry.ID); err != nil {
		return fail(op, errors.Errorf("%w: deleting %s: %w", ErrStore, op.Path, err)), nil
	}

	zerolog.Ctx(ctx).Debug().Str("source", op.Path).Str("target", target).Msg("deleted move source")
	return succeed(op, fmt.Sprintf("deleted %s after move to %s", op.Path, target)), nil
}

// 🧹 processManualDelete removes an entry by caller request. The protected
// path check always applies here; there is no override. Batch caches for the
// deleted path are left in place, manual deletes run last and nothing reads
// them afterwards.
func (p *Processor) processManualDelete(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if op.skipDuplicate {
		return succeed(op, "skipped duplicate delete"), nil
	}
	if op.Path == "" {
		return fail(op, errors.Errorf("delete requires a path: %w", ErrValidation)), nil
	}
	if p.guard.isProtected(op.Path) {
		return fail(op, errors.Errorf("refusing to delete %s: %w", op.Path, ErrProtectedPath)), nil
	}

	entry, err := p.store.Lookup(ctx, op.Path)
	if errors.Is(err, store.ErrNotExist) {
		return fail(op, errors.Errorf("deleting %s: %w", op.Path, ErrNotFound)), nil
	}
	if err != nil {
		return Result{}, errors.Errorf("looking up %s: %w", op.Path, err)
	}

	if err := p.store.Delete(ctx, entry.ID); err != nil {
		return fail(op, errors.Errorf("%w: deleting %s: %w", ErrStore, op.Path, err)), nil
	}
	return succeed(op, fmt.Sprintf("deleted %s", op.Path)), nil
}
