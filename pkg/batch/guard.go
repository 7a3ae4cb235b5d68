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
	"github.com/bmatcuk/doublestar/v4"
)

// 🛡️ DefaultProtectedPatterns lists paths that a manual delete may never
// remove, and a move-derived delete may remove only with the internally set
// safety flag. Patterns use doublestar glob syntax against normalized paths.
var DefaultProtectedPatterns = []string{
	"package.json",
	"package-lock.json",
	"go.mod",
	"go.sum",
	"index.html",
	"src/main.tsx",
	".git/**",
}

// pathGuard answers whether a normalized path matches the protected set.
type pathGuard struct {
	patterns []string
}

func newPathGuard(patterns []string) *pathGuard {
	if patterns == nil {
		patterns = DefaultProtectedPatterns
	}
	return &pathGuard{patterns: patterns}
}

func (g *pathGuard) isProtected(path string) bool {
	for _, pattern := range g.patterns {
		// a malformed pattern matches nothing
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
