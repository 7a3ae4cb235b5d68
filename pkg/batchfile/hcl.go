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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/batchfs/pkg/batch"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the operation list from HCL. The expected form is one
// block per operation:
//
//	operation "create" {
//	  path    = "docs/readme.md"
//	  content = "hello"
//	}
func (p *HCLParser) Parse(ctx context.Context, data []byte) ([]batch.FileOperation, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "batch.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclOperation struct {
		Kind           string `hcl:"kind,label"`
		Path           string `hcl:"path"`
		TargetPath     string `hcl:"target_path,optional"`
		Content        string `hcl:"content,optional"`
		DuplicateCheck bool   `hcl:"duplicate_check,optional"`
	}
	type hclBatch struct {
		Operations []hclOperation `hcl:"operation,block"`
	}

	// Decode HCL
	var doc hclBatch
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &doc)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
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
