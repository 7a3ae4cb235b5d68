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
	"strings"

	"github.com/walteh/batchfs/pkg/vpath"
)

// 🧾 trackedOp ties an operation to its slot in the result slice. Deletes
// derived from moves carry index -1 and are appended after the caller's own
// results.
type trackedOp struct {
	op    *FileOperation
	index int
}

// 🪣 buckets holds the classified batch in strict processing order: reads
// must observe pre-batch state before anything mutates, existence checks
// populate the caches the creation processors rely on, folders must exist
// before files land inside them, every move's destination write must finish
// before any delete runs, and manual deletes run last so they can never race
// an operation that still needs the deleted content.
type buckets struct {
	invalid       []*trackedOp
	reads         []*trackedOp
	checks        []*trackedOp
	folderCreates []*trackedOp
	fileCreates   []*trackedOp
	writes        []*trackedOp
	transfers     []*trackedOp
	moveDeletes   []*trackedOp
	manualDeletes []*trackedOp
}

// classify copies, sanitizes, normalizes, buckets, and deduplicates the raw
// operation list. The input slice is never mutated.
func classify(ops []FileOperation) *buckets {
	b := &buckets{}

	for i := range ops {
		op := ops[i] // copy; the caller's slice stays untouched
		rawPath := op.Path

		// Callers cannot vouch for their own deletes; the safety flag and
		// origin marker are derived internally by the move processor only.
		op.Origin = ""
		op.SafeToDelete = false

		op.Path = vpath.Normalize(op.Path)
		op.TargetPath = vpath.Normalize(op.TargetPath)

		t := &trackedOp{op: &op, index: i}

		switch op.Kind {
		case KindRead:
			b.reads = append(b.reads, t)
		case KindCheckExists:
			b.checks = append(b.checks, t)
		case KindCreate:
			if isFolderCreate(op, rawPath) {
				b.folderCreates = append(b.folderCreates, t)
			} else {
				b.fileCreates = append(b.fileCreates, t)
			}
		case KindWrite:
			b.writes = append(b.writes, t)
		case KindMove, KindCopy:
			b.transfers = append(b.transfers, t)
		case KindDelete:
			// all caller deletes are manual; move-derived deletes are
			// emitted by the move processor itself
			b.manualDeletes = append(b.manualDeletes, t)
		default:
			b.invalid = append(b.invalid, t)
		}
	}

	collapseDuplicates(b.reads)
	collapseDuplicates(b.checks)
	collapseDuplicates(b.folderCreates)
	collapseDuplicates(b.fileCreates)
	collapseDuplicates(b.writes)
	collapseDuplicates(b.manualDeletes)
	collapseTransfers(b.transfers)

	return b
}

// isFolderCreate decides whether a create targets a folder: no content, a
// trailing slash in the raw path, or a final segment without an extension.
func isFolderCreate(op FileOperation, rawPath string) bool {
	if strings.HasSuffix(rawPath, "/") && rawPath != "/" {
		return true
	}
	if op.Content != "" {
		return false
	}
	return !vpath.HasExtension(op.Path)
}

// collapseDuplicates collapses same-(kind, path) entries flagged for
// duplicate checking, preferring the one carrying content. Losers are marked
// so their processor reports a skipped-duplicate success.
func collapseDuplicates(ops []*trackedOp) {
	winners := map[string]*trackedOp{}
	for _, t := range ops {
		if !t.op.DuplicateCheck {
			continue
		}
		winner, ok := winners[t.op.Path]
		if !ok {
			winners[t.op.Path] = t
			continue
		}
		// a later duplicate that carries content displaces an empty one
		if winner.op.Content == "" && t.op.Content != "" {
			winner.op.skipDuplicate = true
			winners[t.op.Path] = t
			continue
		}
		t.op.skipDuplicate = true
	}
}

// collapseTransfers guarantees a given source path is moved at most once per
// batch, regardless of duplicate flags.
func collapseTransfers(ops []*trackedOp) {
	seen := map[string]bool{}
	for _, t := range ops {
		if seen[t.op.Path] {
			t.op.skipDuplicate = true
			continue
		}
		seen[t.op.Path] = true
	}
}
