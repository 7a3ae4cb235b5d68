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

// 📖 processRead resolves a file's content and populates the read cache for
// reuse by moves later in the same batch. A missing file fails the read
// itself; it is never silently treated as empty.
func (p *Processor) processRead(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if op.skipDuplicate {
		return succeed(op, "skipped duplicate read"), nil
	}
	if op.Path == "" {
		return fail(op, errors.Errorf("read requires a path: %w", ErrValidation)), nil
	}

	content, err := p.store.LookupContent(ctx, op.Path)
	if errors.Is(err, store.ErrNotExist) {
		return fail(op, errors.Errorf("reading %s: %w", op.Path, ErrNotFound)), nil
	}
	if err != nil {
		// lookups feed every later phase; a failing store here makes the
		// whole batch unreliable
		return Result{}, errors.Errorf("reading %s: %w", op.Path, err)
	}

	st.cacheRead(op.Path, content)
	zerolog.Ctx(ctx).Debug().Str("path", op.Path).Int("bytes", len(content)).Msg("read file")

	result := succeed(op, fmt.Sprintf("read %s", op.Path))
	result.Content = content
	return result, nil
}

// 🔍 processCheckExists records a path's presence or absence into the batch
// caches. A repeated check for an already-resolved path short-circuits
// without re-querying the store, in either direction.
func (p *Processor) processCheckExists(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if op.Path == "" {
		return fail(op, errors.Errorf("existence check requires a path: %w", ErrValidation)), nil
	}
	if op.skipDuplicate {
		return succeed(op, "skipped duplicate existence check"), nil
	}
	if kind, ok := st.kindOf(op.Path); ok {
		return succeed(op, fmt.Sprintf("%s already checked: exists (%s)", op.Path, kind)), nil
	}
	if st.isAbsent(op.Path) {
		return succeed(op, fmt.Sprintf("%s already checked: does not exist", op.Path)), nil
	}

	entry, err := p.store.Lookup(ctx, op.Path)
	if errors.Is(err, store.ErrNotExist) {
		st.markAbsent(op.Path)
		return succeed(op, fmt.Sprintf("%s does not exist", op.Path)), nil
	}
	if err != nil {
		return Result{}, errors.Errorf("checking existence of %s: %w", op.Path, err)
	}

	st.remember(entry)
	return succeed(op, fmt.Sprintf("%s exists (%s)", op.Path, entry.Kind)), nil
}
