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

// Package batch executes batches of file operations against a path-addressed
// store in a safe, deterministic order: reads first, then existence checks,
// folder creates, file creates, writes, moves/copies, move-derived deletes,
// and manual deletes last. Per-operation failures are recorded in that
// operation's result; the rest of the batch continues.
package batch

// 🏷️ Kind identifies what an operation does to the tree.
type Kind string

const (
	KindRead        Kind = "read"
	KindCheckExists Kind = "check_exists"
	KindCreate      Kind = "create"
	KindWrite       Kind = "write"
	KindMove        Kind = "move"
	KindCopy        Kind = "copy"
	KindDelete      Kind = "delete"
)

// 🎯 FileOperation is one requested step against the virtual tree. Path and
// TargetPath arrive caller-supplied and are normalized during
// classification.
type FileOperation struct {
	Kind       Kind   `yaml:"kind" json:"kind"`
	Path       string `yaml:"path" json:"path"`
	TargetPath string `yaml:"target_path,omitempty" json:"target_path,omitempty"`
	Content    string `yaml:"content,omitempty" json:"content,omitempty"`

	// DuplicateCheck asks the classifier to collapse repeated
	// (kind, path) entries; callers sometimes issue the same instruction
	// twice.
	DuplicateCheck bool `yaml:"duplicate_check,omitempty" json:"duplicate_check,omitempty"`

	// Origin records which operation a derived delete came from. Caller
	// values are discarded during classification; only the move processor
	// sets it.
	Origin Kind `yaml:"-" json:"-"`

	// SafeToDelete authorizes deleting a protected path. Caller values are
	// discarded during classification; only the move processor sets it.
	SafeToDelete bool `yaml:"-" json:"-"`

	// skipDuplicate marks an operation collapsed by deduplication; its
	// processor short-circuits with a success result.
	skipDuplicate bool
}

// 📋 Result annotates one operation with its outcome. Results come back in
// input order; deletes derived from moves are appended after them. Content
// is populated on successful reads.
type Result struct {
	FileOperation

	Success bool   `yaml:"success" json:"success"`
	Message string `yaml:"message" json:"message"`

	// Err carries the classified failure, matchable with errors.Is against
	// the package sentinels. Nil on success.
	Err error `yaml:"-" json:"-"`
}

// ✅ succeed builds a success result for an operation.
func succeed(op FileOperation, message string) Result {
	return Result{FileOperation: op, Success: true, Message: message}
}

// ❌ fail builds a failure result for an operation. The error should wrap
// one of the package sentinels.
func fail(op FileOperation, err error) Result {
	return Result{FileOperation: op, Success: false, Message: err.Error(), Err: err}
}
