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

package fileconverter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"
)

// Converter converts single files within one category.
type Converter interface {
	// Name returns a short identifier such as "image".
	Name() string

	// Category returns the category whose output formats this converter produces.
	Category() Category

	// SupportedInputs returns the accepted input extensions, sorted, without dots.
	SupportedInputs() []string

	// SupportedOutputs returns the producible output extensions, sorted, without dots.
	SupportedOutputs() []string

	// Convert converts one file. It never panics on delegate failures and never
	// returns a partially written destination as a success.
	Convert(ctx context.Context, req Request) Outcome
}

// Outcome is the result of converting one file.
type Outcome struct {
	InputPath  string
	OutputPath string
	Success    bool
	// Err is nil on success, otherwise a *ConversionError.
	Err error
}

// Kind returns the failure kind of the outcome, or 0 on success.
func (o Outcome) Kind() FailureKind {
	var ce *ConversionError
	if errors.As(o.Err, &ce) {
		return ce.Kind
	}
	return 0
}

// formatSet is an immutable set of extensions.
type formatSet map[string]bool

func newFormatSet(exts ...string) formatSet {
	s := make(formatSet, len(exts))
	for _, e := range exts {
		s[NormalizeFormat(e)] = true
	}
	return s
}

func (s formatSet) sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// converterBase carries what every converter shares: its identity, the fixed
// extension sets, a component logger and the delegate timeout.
type converterBase struct {
	name     string
	category Category
	inputs   formatSet
	outputs  formatSet
	logger   *slog.Logger
	timeout  time.Duration
}

func newConverterBase(name string, cat Category, inputs, outputs []string, logger *slog.Logger, timeout time.Duration) converterBase {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return converterBase{
		name:     name,
		category: cat,
		inputs:   newFormatSet(inputs...),
		outputs:  newFormatSet(outputs...),
		logger:   logger.With("converter", name),
		timeout:  timeout,
	}
}

func (b *converterBase) Name() string               { return b.name }
func (b *converterBase) Category() Category         { return b.category }
func (b *converterBase) SupportedInputs() []string  { return b.inputs.sorted() }
func (b *converterBase) SupportedOutputs() []string { return b.outputs.sorted() }

// job is a validated conversion waiting for its delegate.
type job struct {
	req       Request
	inputExt  string
	outputExt string
	output    string
	// existed records whether the destination was present before the delegate ran.
	existed bool
}

// prepare validates the request and resolves the destination. A non-nil Outcome
// means the request was rejected before any delegate ran.
func (b *converterBase) prepare(req Request) (job, *Outcome) {
	j := job{
		req:       req,
		inputExt:  inputExtension(req.InputPath),
		outputExt: NormalizeFormat(req.OutputFormat),
	}

	if !b.inputs[j.inputExt] {
		return j, b.reject(req, "", &ConversionError{
			Kind:   KindUnsupportedInput,
			Input:  req.InputPath,
			Detail: fmt.Sprintf("extension=%q", j.inputExt),
		})
	}
	if !b.outputs[j.outputExt] {
		return j, b.reject(req, "", &ConversionError{
			Kind:   KindUnsupportedOutput,
			Input:  req.InputPath,
			Detail: fmt.Sprintf("format=%q", j.outputExt),
		})
	}

	j.output = ResolveOutputPath(req.InputPath, j.outputExt, req.OutputDir)
	if _, err := os.Stat(j.output); err == nil {
		j.existed = true
		if !req.Options.Overwrite {
			return j, b.reject(req, j.output, &ConversionError{
				Kind:   KindDestinationConflict,
				Input:  req.InputPath,
				Detail: fmt.Sprintf("output=%q", j.output),
			})
		}
	}
	return j, nil
}

func (b *converterBase) reject(req Request, output string, ce *ConversionError) *Outcome {
	if ce.Kind == KindDestinationConflict {
		b.logger.Warn("output file already exists", "input", req.InputPath, "output", output)
	} else {
		b.logger.Error("conversion rejected", "input", req.InputPath, "reason", ce.Kind.String(), "detail", ce.Detail)
	}
	return &Outcome{InputPath: req.InputPath, OutputPath: output, Err: ce}
}

// run executes the delegate under the configured timeout, turning a panic into an
// error, and produces the outcome. A destination left behind by a failed delegate
// is removed unless it existed beforehand.
func (b *converterBase) run(ctx context.Context, j job, delegate func(ctx context.Context) error) Outcome {
	err := b.callDelegate(ctx, delegate)
	if err == nil {
		if _, statErr := os.Stat(j.output); statErr != nil {
			err = fmt.Errorf("delegate reported success but produced no output: %w", statErr)
		}
	}

	if err != nil {
		if !j.existed {
			os.Remove(j.output)
		}
		b.logger.Error("conversion failed", "input", j.req.InputPath, "error", err)
		return Outcome{
			InputPath:  j.req.InputPath,
			OutputPath: j.output,
			Err: &ConversionError{
				Kind:  KindDelegateFailure,
				Input: j.req.InputPath,
				Err:   err,
			},
		}
	}

	b.logger.Info("converted", "input", j.req.InputPath, "output", j.output)
	return Outcome{InputPath: j.req.InputPath, OutputPath: j.output, Success: true}
}

func (b *converterBase) callDelegate(ctx context.Context, delegate func(ctx context.Context) error) (err error) {
	// A started delegate runs to completion; batches stop between files.
	ctx = context.WithoutCancel(ctx)
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delegate panic: %v", r)
		}
	}()
	return delegate(ctx)
}
