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

package batchfile

import (
	"context"
	"strings"

	"github.com/walteh/batchfs/pkg/batch"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the operation list from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) ([]batch.FileOperation, error) {
	// Define YAML schema
	type yamlOperation struct {
		Kind           string `yaml:"kind"`
		Path           string `yaml:"path"`
		TargetPath     string `yaml:"target_path,omitempty"`
		Content        string `yaml:"content,omitempty"`
		DuplicateCheck bool   `yaml:"duplicate_check,omitempty"`
	}
	type yamlBatch struct {
		Operations []yamlOperation `yaml:"operations"`
	}

	// Parse YAML
	var doc yamlBatch
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	// Convert to model
	ops := make([]batch.FileOperation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		ops = append(ops, batch.FileOperation{
			Kind:           batch.Kind(op.Kind),
			Path:           op.Path,
			TargetPath:     op.TargetPath,
			Content:        op.Content,
			DuplicateCheck: op.DuplicateCheck,
		})
	}

	// Validate
	if err := validate(ops); err != nil {
		return nil, errors.Errorf("validating batch: %w", err)
	}

	return ops, nil
}
