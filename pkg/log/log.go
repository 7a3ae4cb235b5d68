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

// Package log renders per-operation batch outcomes for a human watching the
// console, mirroring everything into zerolog for debugging. It is a
// best-effort sink; nothing here can fail a batch.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/batchfs/pkg/batch"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent operation entries
	pathWidth  = 35 // base width for paths
	kindWidth  = 14 // width for operation kind
)

// 🎯 Reporter renders batch operation outcomes to the console.
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	succeeded int
	failed    int
}

// 🏭 NewReporter creates a reporter writing human output to console.
func NewReporter(ctx context.Context, console io.Writer) *Reporter {
	return &Reporter{
		zlog:    *zerolog.Ctx(ctx),
		console: console,
	}
}

var _ batch.Reporter = (*Reporter)(nil)

// 📝 Report renders one operation outcome.
func (r *Reporter) Report(ctx context.Context, result batch.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.Success {
		r.succeeded++
	} else {
		r.failed++
	}

	fmt.Fprintln(r.console, r.formatResult(result))

	r.zlog.Info().
		Str("kind", string(result.Kind)).
		Str("path", result.Path).
		Str("target_path", result.TargetPath).
		Bool("success", result.Success).
		Str("message", result.Message).
		Msg("file operation")
}

// formatResult builds a single console line for an operation outcome.
func (r *Reporter) formatResult(result batch.Result) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case !result.Success:
		symbol = '✗'
		symbolColor = color.FgRed
	case result.Kind == batch.KindDelete:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	path := result.Path
	if result.TargetPath != "" {
		path = path + " → " + result.TargetPath
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", kindWidth, result.Kind)),
		result.Message)
}

// 📝 Header prints a banner before a batch starts.
func (r *Reporter) Header(name string, operations int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.succeeded = 0
	r.failed = 0

	batchfsText := color.New(color.Bold, color.FgCyan).Sprint("batchfs")
	fmt.Fprintf(r.console, "\n%s %s\n\n", batchfsText,
		color.New(color.Faint).Sprintf("• applying %s (%d operations)", name, operations))
	r.zlog.Info().Str("batch", name).Int("operations", operations).Msg("applying batch")
}

// 📊 Summary prints the outcome tally once a batch finishes.
func (r *Reporter) Summary(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := fmt.Sprintf("%d succeeded, %d failed", r.succeeded, r.failed)
	if r.failed > 0 {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(msg)
	}
	r.zlog.Info().Int("succeeded", r.succeeded).Int("failed", r.failed).Msg("batch finished")
}

// 🔍 Validation reports a batch-level validation outcome.
func (r *Reporter) Validation(valid bool, description string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		r.zlog.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		r.zlog.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	r.zlog.Warn().Msg(description)
}
