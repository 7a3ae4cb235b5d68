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

	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// 📢 Reporter receives per-operation outcomes as they happen. It is a
// best-effort sink; it cannot fail the batch.
type Reporter interface {
	Report(ctx context.Context, result Result)
}

// 🎮 Processor executes batches of file operations against a single store.
// Each Process call gets a fresh operation state; a Processor holds no
// cross-batch state and is safe for concurrent batches, the store's own
// concurrency discipline governing cross-batch races.
type Processor struct {
	store    store.Store
	guard    *pathGuard
	reporter Reporter
}

// 🔧 Option configures a Processor.
type Option func(*Processor)

// WithProtectedPatterns replaces the default protected path set.
func WithProtectedPatterns(patterns ...string) Option {
	return func(p *Processor) {
		p.guard = newPathGuard(patterns)
	}
}

// WithReporter attaches a per-operation outcome sink.
func WithReporter(r Reporter) Option {
	return func(p *Processor) {
		p.reporter = r
	}
}

// 🏭 New creates a processor for the given store.
func New(st store.Store, opts ...Option) *Processor {
	p := &Processor{
		store: st,
		guard: newPathGuard(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// 🏃 Process classifies, orders, deduplicates, and executes a batch,
// returning one result per input operation in input order, followed by the
// results of deletes derived from moves. Execution is strictly sequential:
// one phase at a time, one operation at a time.
//
// Expected per-operation failures (validation, not found, protected path,
// safety check, failed mutation) are recorded in that operation's result and
// the batch continues. An unexpected store failure aborts the remaining
// phases and is returned as the error; batch state is cleared either way.
func (p *Processor) Process(ctx context.Context, ops []FileOperation) ([]Result, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("operations", len(ops)).Msg("processing batch")

	st := newOperationState()
	defer st.reset()

	b := classify(ops)

	results := make([]Result, len(ops))
	var derivedResults []Result
	record := func(t *trackedOp, result Result) {
		if p.reporter != nil {
			p.reporter.Report(ctx, result)
		}
		if t.index >= 0 {
			results[t.index] = result
		} else {
			derivedResults = append(derivedResults, result)
		}
	}

	// Malformed kinds fail during classification, before any store call.
	for _, t := range b.invalid {
		record(t, fail(*t.op, errors.Errorf("unknown operation kind %q: %w", t.op.Kind, ErrValidation)))
	}

	phases := []struct {
		name string
		ops  []*trackedOp
		run  func(context.Context, *operationState, FileOperation) (Result, error)
	}{
		{"read", b.reads, p.processRead},
		{"check_exists", b.checks, p.processCheckExists},
		{"create_folder", b.folderCreates, p.processCreateFolder},
		{"create_file", b.fileCreates, p.processPutFile},
		{"write", b.writes, p.processPutFile},
		{"transfer", b.transfers, nil}, // handled below, emits derived deletes
		{"move_delete", nil, p.processMoveDelete},
		{"manual_delete", b.manualDeletes, p.processManualDelete},
	}

	var moveDeletes []*trackedOp
	for _, phase := range phases {
		phaseOps := phase.ops
		if phase.name == "move_delete" {
			phaseOps = moveDeletes
		}
		logger.Debug().Str("phase", phase.name).Int("operations", len(phaseOps)).Msg("running phase")

		for _, t := range phaseOps {
			var result Result
			var err error

			if phase.name == "transfer" {
				var derived *FileOperation
				result, derived, err = p.processTransfer(ctx, st, *t.op)
				if derived != nil {
					moveDeletes = append(moveDeletes, &trackedOp{op: derived, index: -1})
				}
			} else {
				result, err = phase.run(ctx, st, *t.op)
			}

			if err != nil {
				st.reset()
				return nil, errors.Errorf("%s phase: %w", phase.name, err)
			}
			record(t, result)
		}
	}

	logger.Debug().Int("results", len(results)+len(derivedResults)).Msg("batch complete")
	return append(results, derivedResults...), nil
}
