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

// Package batchfile loads batch definitions from YAML or HCL files.
package batchfile

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for batch file parsers
type Parser interface {
	// 📝 Parse parses the operation list from bytes
	Parse(ctx context.Context, data []byte) ([]batch.FileOperation, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📂 Load reads and parses a batch definition file
func Load(ctx context.Context, filename string) ([]batch.FileOperation, error) {
	zerolog.Ctx(ctx).Debug().Str("file", filename).Msg("loading batch file")

	parser := GetParser(filename)
	if parser == nil {
		return nil, errors.Errorf("no parser registered for %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Errorf("reading batch file: %w", err)
	}

	ops, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", filename, err)
	}
	return ops, nil
}

// validKinds is what a batch file may ask for.
var validKinds = map[batch.Kind]bool{
	batch.KindRead:        true,
	batch.KindCheckExists: true,
	batch.KindCreate:      true,
	batch.KindWrite:       true,
	batch.KindMove:        true,
	batch.KindCopy:        true,
	batch.KindDelete:      true,
}

// ✅ validate rejects malformed operation lists before they reach a store.
func validate(ops []batch.FileOperation) error {
	if len(ops) == 0 {
		return errors.New("batch file contains no operations")
	}
	for i, op := range ops {
		if !validKinds[op.Kind] {
			return errors.Errorf("operation %d: unknown kind %q", i, op.Kind)
		}
		if op.Path == "" {
			return errors.Errorf("operation %d (%s): path is required", i, op.Kind)
		}
	}
	return nil
}
