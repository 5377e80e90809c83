// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package office drives a headless office suite (LibreOffice) to convert
// documents, spreadsheets and presentations.
package office

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nicholasgasior/fileconverter-go/internal/delegate"
)

// DefaultBinary returns the engine executable for the current OS.
func DefaultBinary() string {
	if runtime.GOOS == "windows" {
		return "soffice"
	}
	return "libreoffice"
}

// Engine converts files with the office suite.
type Engine struct {
	Binary string
	Runner delegate.Runner
}

// New returns an Engine for binary ("" selects DefaultBinary).
func New(binary string, r delegate.Runner) *Engine {
	if binary == "" {
		binary = DefaultBinary()
	}
	if r == nil {
		r = delegate.ExecRunner{}
	}
	return &Engine{Binary: binary, Runner: r}
}

// Available reports whether the binary is on PATH.
func (e *Engine) Available() bool {
	_, err := e.Runner.LookPath(e.Binary)
	return err == nil
}

// Args returns the command line for converting input into outDir. target is the
// --convert-to value, optionally carrying a filter ("txt:Text").
func Args(target, outDir, input string) []string {
	return []string{"--headless", "--convert-to", target, "--outdir", outDir, input}
}

// ProducedPath is where the engine writes its result: the input base name with
// the target's extension, inside outDir.
func ProducedPath(input, target, outDir string) string {
	ext, _, _ := strings.Cut(target, ":")
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"."+ext)
}

// Convert converts input to output with the given target. The engine always
// names its result after the input, so a result at a different path is renamed
// to output.
func (e *Engine) Convert(ctx context.Context, input, output, target string) error {
	outDir := filepath.Dir(output)
	if err := delegate.Exec(ctx, e.Runner, e.Binary, Args(target, outDir, input)...); err != nil {
		return err
	}

	produced := ProducedPath(input, target, outDir)
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("%s produced no %s: %w", e.Binary, filepath.Base(produced), err)
	}
	if filepath.Clean(produced) != filepath.Clean(output) {
		if err := os.Rename(produced, output); err != nil {
			return fmt.Errorf("rename %s: %w", produced, err)
		}
	}
	return nil
}
