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

// Package vpath canonicalizes paths in the virtual tree. Every path that is
// compared, cached, or handed to a store goes through Normalize first; the
// canonical form has no leading slash and no trailing slashes.
package vpath

import "strings"

// 🧹 Normalize returns the canonical form of a virtual path. Empty input
// normalizes to "". Normalize is idempotent.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	return strings.Trim(path, "/")
}

// ✂️ Split separates a path into its parent path and final segment. The
// parent of a root-level entry is "".
func Split(path string) (parent, name string) {
	p := Normalize(path)
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return "", p
	}
	return p[:idx], p[idx+1:]
}

// 🪜 Segments returns the individual segments of a path, root first. A ""
// path has no segments.
func Segments(path string) []string {
	p := Normalize(path)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// 🔗 Join combines a parent path and a name into a single normalized path.
func Join(parent, name string) string {
	parent = Normalize(parent)
	name = Normalize(name)
	if parent == "" {
		return name
	}
	if name == "" {
		return parent
	}
	return parent + "/" + name
}

// 📛 HasExtension reports whether the final segment carries a file
// extension. Used to tell folder creates from file creates when the caller
// did not say which they meant.
func HasExtension(path string) bool {
	_, name := Split(path)
	idx := strings.LastIndex(name, ".")
	return idx > 0 && idx < len(name)-1
}
