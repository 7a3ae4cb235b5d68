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

// 🌲 ensureFolder creates every missing segment of path, root first. It
// consults the batch caches before the live store, because a folder created
// earlier in this batch may not be visible in a stale store snapshot. A
// segment that already exists as a file fails the whole chain; a file can
// never hold children.
func (p *Processor) ensureFolder(ctx context.Context, st *operationState, path string) error {
	prefix := ""
	for _, segment := range vpath.Segments(path) {
		parent := prefix
		prefix = vpath.Join(prefix, segment)

		if kind, ok := st.kindOf(prefix); ok {
			if kind == store.KindFile {
				return errors.Errorf("%s already exists as a file: %w", prefix, ErrValidation)
			}
			continue
		}

		entry, err := p.store.Lookup(ctx, prefix)
		if err == nil {
			st.remember(entry)
			if entry.Kind == store.KindFile {
				return errors.Errorf("%s already exists as a file: %w", prefix, ErrValidation)
			}
			continue
		}
		if !errors.Is(err, store.ErrNotExist) {
			return errors.Errorf("looking up %s: %w", prefix, err)
		}

		created, err := p.store.CreateFolder(ctx, parent, segment)
		if err != nil {
			return errors.Errorf("creating folder %s: %w", prefix, err)
		}
		st.markCreated(created)
		zerolog.Ctx(ctx).Debug().Str("path", prefix).Msg("created folder")
	}
	return nil
}

// 📁 processCreateFolder creates a folder and its missing ancestors.
// Creating an already-existing folder is a success no-op.
func (p *Processor) processCreateFolder(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if op.skipDuplicate {
		return succeed(op, "skipped duplicate folder create"), nil
	}
	if op.Path == "" {
		return fail(op, errors.Errorf("folder create requires a path: %w", ErrValidation)), nil
	}

	if kind, ok := st.kindOf(op.Path); ok {
		if kind == store.KindFile {
			return fail(op, errors.Errorf("%s already exists as a file: %w", op.Path, ErrValidation)), nil
		}
		return succeed(op, fmt.Sprintf("folder %s already exists", op.Path)), nil
	}

	if err := p.ensureFolder(ctx, st, op.Path); err != nil {
		if errors.Is(err, ErrValidation) {
			return fail(op, err), nil
		}
		return fail(op, errors.Errorf("%w: %w", ErrStore, err)), nil
	}
	return succeed(op, fmt.Sprintf("created folder %s", op.Path)), nil
}

// 📄 processPutFile backs both file creates and writes: ensure the parent
// chain, then insert the file, degrading to a content update when the path
// already holds one.
func (p *Processor) processPutFile(ctx context.Context, st *operationState, op FileOperation) (Result, error) {
	if op.skipDuplicate {
		return succeed(op, "skipped duplicate write"), nil
	}
	if op.Path == "" {
		return fail(op, errors.Errorf("write requires a path: %w", ErrValidation)), nil
	}

	parent, name := vpath.Split(op.Path)
	if err := p.ensureFolder(ctx, st, parent); err != nil {
		if errors.Is(err, ErrValidation) {
			return fail(op, err), nil
		}
		return fail(op, errors.Errorf("%w: ensuring parent of %s: %w", ErrStore, op.Path, err)), nil
	}

	kind, known := st.kindOf(op.Path)
	if !known {
		entry, err := p.store.Lookup(ctx, op.Path)
		if err == nil {
			st.remember(entry)
			kind, known = entry.Kind, true
		} else if !errors.Is(err, store.ErrNotExist) {
			return Result{}, errors.Errorf("looking up %s: %w", op.Path, err)
		}
	}

	if known {
		if kind == store.KindFolder {
			return fail(op, errors.Errorf("%s is a folder, cannot write file content: %w", op.Path, ErrValidation)), nil
		}
		if err := p.store.UpdateContent(ctx, op.Path, op.Content); err != nil {
			return fail(op, errors.Errorf("%w: updating %s: %w", ErrStore, op.Path, err)), nil
		}
		return succeed(op, fmt.Sprintf("updated existing file %s", op.Path)), nil
	}

	entry, err := p.store.CreateFile(ctx, parent, name, op.Content)
	if err != nil {
		return fail(op, errors.Errorf("%w: creating %s: %w", ErrStore, op.Path, err)), nil
	}
	st.markCreated(entry)
	return succeed(op, fmt.Sprintf("created file %s", op.Path)), nil
}
