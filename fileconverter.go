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

// Package fileconverter converts image, audio, video and document files between
// formats. It picks a converter by output format, validates extensions, builds
// output paths and hands the actual transformation to Go libraries or external
// tools (ffmpeg, LibreOffice, ImageMagick), reporting per-file outcomes and
// batch progress.
package fileconverter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nicholasgasior/fileconverter-go/internal/delegate"
	"github.com/nicholasgasior/fileconverter-go/internal/ffmpeg"
	"github.com/nicholasgasior/fileconverter-go/internal/magick"
	"github.com/nicholasgasior/fileconverter-go/internal/office"
)

// Engine is the conversion front end: it owns the registry and the shared
// dependencies of the built-in converters.
type Engine struct {
	registry        *Registry
	logger          *slog.Logger
	runner          delegate.Runner
	workers         int
	delegateTimeout time.Duration
	ffmpegBinary    string
	officeBinary    string
	magickBinary    string
}

// New creates an Engine with the built-in image, video, document and audio converters.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		runner:  delegate.ExecRunner{},
		workers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.enableBuiltins()
	return e
}

// enableBuiltins registers the four built-in converters.
func (e *Engine) enableBuiltins() {
	r, err := NewRegistry(DefaultCategoryExtensions(),
		NewImageConverter(e),
		NewVideoConverter(e),
		NewDocumentConverter(e),
		NewAudioConverter(e),
	)
	if err != nil {
		// The built-in sets are fixed; a failure here is a programming error.
		panic(fmt.Sprintf("fileconverter: built-in registry: %v", err))
	}
	e.registry = r
}

// RegisterConverter replaces the converter for c's category.
func (e *Engine) RegisterConverter(c Converter) error {
	return e.registry.Replace(c)
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// SelectConverter returns the converter producing outputFormat.
func (e *Engine) SelectConverter(outputFormat string) (Converter, bool) {
	return e.registry.SelectConverter(outputFormat)
}

// ConverterFor returns the converter of a category.
func (e *Engine) ConverterFor(cat Category) (Converter, bool) {
	return e.registry.ConverterFor(cat)
}

// Classify returns the category of path.
func (e *Engine) Classify(path string) Category {
	return e.registry.Classify(path)
}

// OutputFormats lists every output format a converter can be selected for.
func (e *Engine) OutputFormats() []string {
	return e.registry.OutputFormats()
}

// Convert converts a single file.
func (e *Engine) Convert(ctx context.Context, inputPath, outputFormat, outputDir string, opts Options) (Outcome, error) {
	conv, err := e.prepareBatch(outputFormat, outputDir, opts)
	if err != nil {
		return Outcome{}, err
	}
	req, err := NewRequest(inputPath, outputFormat, outputDir, opts)
	if err != nil {
		return Outcome{}, err
	}
	return conv.Convert(ctx, req), nil
}

// RunBatch converts files to outputFormat in outputDir and blocks until done.
// A format no converter produces is reported as *NoConverterError before any
// file is touched.
func (e *Engine) RunBatch(ctx context.Context, files []string, outputFormat, outputDir string, opts Options, r Reporter) (BatchResult, error) {
	conv, err := e.prepareBatch(outputFormat, outputDir, opts)
	if err != nil {
		return BatchResult{}, err
	}
	return e.runBatch(ctx, conv, files, outputFormat, outputDir, opts, r), nil
}

// RunBatchWith is RunBatch with an explicitly chosen converter, for formats
// more than one converter can produce (video to gif).
func (e *Engine) RunBatchWith(ctx context.Context, conv Converter, files []string, outputFormat, outputDir string, opts Options, r Reporter) (BatchResult, error) {
	if err := e.checkBatch(outputFormat, outputDir, opts); err != nil {
		return BatchResult{}, err
	}
	return e.runBatch(ctx, conv, files, outputFormat, outputDir, opts, r), nil
}

// Start runs the batch on a background goroutine and returns immediately.
func (e *Engine) Start(ctx context.Context, files []string, outputFormat, outputDir string, opts Options) (*Job, error) {
	conv, err := e.prepareBatch(outputFormat, outputDir, opts)
	if err != nil {
		return nil, err
	}
	return e.startJob(ctx, conv, files, outputFormat, outputDir, opts), nil
}

func (e *Engine) runBatch(ctx context.Context, conv Converter, files []string, outputFormat, outputDir string, opts Options, r Reporter) BatchResult {
	warnCollisions(e.logger, files, outputFormat, outputDir)
	if e.workers > 1 {
		return runParallel(ctx, conv, files, outputFormat, outputDir, opts, r, e.workers, e.logger)
	}
	return RunBatch(ctx, conv, files, outputFormat, outputDir, opts, r)
}

func (e *Engine) prepareBatch(outputFormat, outputDir string, opts Options) (Converter, error) {
	conv, ok := e.registry.SelectConverter(outputFormat)
	if !ok {
		return nil, &NoConverterError{Format: NormalizeFormat(outputFormat)}
	}
	if err := e.checkBatch(outputFormat, outputDir, opts); err != nil {
		return nil, err
	}
	return conv, nil
}

// checkBatch validates options and creates the output directory.
func (e *Engine) checkBatch(outputFormat, outputDir string, opts Options) error {
	if NormalizeFormat(outputFormat) == "" {
		return fmt.Errorf("empty output format")
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if outputDir == "" {
		return fmt.Errorf("empty output directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// ExtractSubclip copies the [start, end) range of a video into outputPath.
func (e *Engine) ExtractSubclip(ctx context.Context, inputPath, outputPath string, start, end time.Duration) error {
	vc, ok := e.registry.ConverterFor(CategoryVideo)
	if !ok {
		return fmt.Errorf("no video converter registered")
	}
	sub, ok := vc.(interface {
		ExtractSubclip(ctx context.Context, inputPath, outputPath string, start, end time.Duration) error
	})
	if !ok {
		return fmt.Errorf("video converter %q cannot extract clips", vc.Name())
	}
	return sub.ExtractSubclip(ctx, inputPath, outputPath, start, end)
}

// ToolStatus reports whether an external tool is available.
type ToolStatus struct {
	Name      string
	Binary    string
	Available bool
	UsedBy    string
}

// CheckTools looks up on PATH every external tool the converters may call.
func (e *Engine) CheckTools() []ToolStatus {
	ff := e.ffmpegTool()
	off := e.officeEngine()
	mg := e.magickTool()
	return []ToolStatus{
		{Name: "ffmpeg", Binary: ff.Binary, Available: ff.Available(), UsedBy: "audio, video"},
		{Name: "office", Binary: off.Binary, Available: off.Available(), UsedBy: "document"},
		{Name: "imagemagick", Binary: mg.Binary, Available: mg.Available(), UsedBy: "image (svg, webp)"},
	}
}

func (e *Engine) ffmpegTool() *ffmpeg.Tool {
	return ffmpeg.New(e.ffmpegBinary, e.runner)
}

func (e *Engine) officeEngine() *office.Engine {
	return office.New(e.officeBinary, e.runner)
}

func (e *Engine) magickTool() *magick.Tool {
	return magick.New(e.magickBinary, e.runner)
}

// engineOrDefault lets converters be built with a nil Engine.
func engineOrDefault(e *Engine) *Engine {
	if e != nil {
		return e
	}
	return &Engine{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		runner:  delegate.ExecRunner{},
		workers: 1,
	}
}
