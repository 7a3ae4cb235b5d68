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

import "gitlab.com/tozd/go/errors"

// Failure taxonomy. Every per-operation failure wraps exactly one of these
// sentinels so callers can classify results with errors.Is.
var (
	// ErrValidation marks a malformed operation (e.g. move without a
	// target path). Fails only that operation.
	ErrValidation = errors.Base("invalid operation")

	// ErrNotFound marks a referenced source path that does not exist.
	// Fails only that operation, never implicitly creates.
	ErrNotFound = errors.Base("path not found")

	// ErrProtectedPath marks a delete attempted on a protected path
	// without an internally derived safety flag. Always refused.
	ErrProtectedPath = errors.Base("path is protected")

	// ErrSafetyCheck marks a move-derived delete whose destination could
	// not be confirmed. Refused; the destination copy survives.
	ErrSafetyCheck = errors.Base("delete safety check failed")

	// ErrStore marks a failed backing store mutation.
	ErrStore = errors.Base("store operation failed")
)
