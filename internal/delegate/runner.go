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

// Package delegate runs the external conversion binaries (ffmpeg, the office
// engine, ImageMagick) behind a small interface so converters can be tested
// without them.
package delegate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when a binary is not on PATH.
var ErrToolNotFound = errors.New("tool not found on PATH")

// Runner executes external commands.
type Runner interface {
	// LookPath resolves a binary name to a path.
	LookPath(file string) (string, error)

	// Run executes name with args and waits for it. Stderr is returned for
	// diagnostics; a non-zero exit status is an error.
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) LookPath(file string) (string, error) {
	p, err := exec.LookPath(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, ErrToolNotFound)
	}
	return p, nil
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// ToolError is a failed external command.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if s := lastLines(e.Stderr, 3); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Exec runs name through r and wraps a failure in a ToolError.
func Exec(ctx context.Context, r Runner, name string, args ...string) error {
	stderr, err := r.Run(ctx, name, args...)
	if err != nil {
		return &ToolError{Tool: name, Args: args, Stderr: stderr, Err: err}
	}
	return nil
}

// lastLines returns the last n non-empty lines of s joined by "; ".
func lastLines(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
