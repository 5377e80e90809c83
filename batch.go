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
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Reporter receives batch progress. Progress is called before each file with
// the share of files already handled; Complete is called once at the end.
type Reporter interface {
	Progress(percent int, message string)
	Complete(success bool, message string)
}

// ReporterFuncs adapts plain functions to Reporter. Nil fields are skipped.
type ReporterFuncs struct {
	OnProgress func(percent int, message string)
	OnComplete func(success bool, message string)
}

func (f ReporterFuncs) Progress(percent int, message string) {
	if f.OnProgress != nil {
		f.OnProgress(percent, message)
	}
}

func (f ReporterFuncs) Complete(success bool, message string) {
	if f.OnComplete != nil {
		f.OnComplete(success, message)
	}
}

// BatchResult aggregates the outcomes of a batch. Outcomes has one entry per
// input file, in input order; files skipped by cancellation carry a
// KindCanceled error.
type BatchResult struct {
	Total     int
	Attempted int
	Succeeded int
	Outcomes  []Outcome
	Canceled  bool
}

// Failed returns the number of files that did not convert.
func (r BatchResult) Failed() int {
	return r.Total - r.Succeeded
}

// AllSucceeded reports whether every file converted.
func (r BatchResult) AllSucceeded() bool {
	return r.Succeeded == r.Total
}

// Summary returns the completion message.
func (r BatchResult) Summary() string {
	msg := fmt.Sprintf("Converted %d of %d files successfully", r.Succeeded, r.Total)
	if r.Canceled {
		msg += fmt.Sprintf(" (canceled after %d of %d)", r.Attempted, r.Total)
	}
	return msg
}

// RunBatch converts files one after another with conv. A failing or panicking
// file never stops the batch; ctx is checked between files.
func RunBatch(ctx context.Context, conv Converter, files []string, outputFormat, outputDir string, opts Options, r Reporter) BatchResult {
	r = reporterOrNop(r)
	res := newBatchResult(files)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			res.Canceled = true
			break
		}
		pct := progressPercent(i, res.Total)
		r.Progress(pct, fmt.Sprintf("Converting %s...", filepath.Base(path)))

		o, panicMsg := convertOne(ctx, conv, path, outputFormat, outputDir, opts)
		if panicMsg != "" {
			r.Progress(pct, "Error: "+panicMsg)
		}
		res.record(i, o)
	}

	r.Complete(res.AllSucceeded(), res.Summary())
	return res
}

// runParallel converts up to workers files at a time. Progress percentages
// never decrease and outcomes keep input order.
func runParallel(ctx context.Context, conv Converter, files []string, outputFormat, outputDir string, opts Options, r Reporter, workers int, logger *slog.Logger) BatchResult {
	r = reporterOrNop(r)
	res := newBatchResult(files)
	logger.Debug("starting parallel batch", "files", len(files), "workers", workers)

	var (
		mu      sync.Mutex
		started int
		lastPct int
	)
	p := pool.New().WithMaxGoroutines(workers)
	for i, path := range files {
		p.Go(func() {
			if ctx.Err() != nil {
				mu.Lock()
				res.Canceled = true
				mu.Unlock()
				return
			}

			mu.Lock()
			lastPct = progressPercent(started, res.Total)
			started++
			r.Progress(lastPct, fmt.Sprintf("Converting %s...", filepath.Base(path)))
			mu.Unlock()

			o, panicMsg := convertOne(ctx, conv, path, outputFormat, outputDir, opts)

			mu.Lock()
			defer mu.Unlock()
			if panicMsg != "" {
				r.Progress(lastPct, "Error: "+panicMsg)
			}
			res.record(i, o)
		})
	}
	p.Wait()

	r.Complete(res.AllSucceeded(), res.Summary())
	return res
}

func newBatchResult(files []string) BatchResult {
	res := BatchResult{Total: len(files), Outcomes: make([]Outcome, len(files))}
	for i, path := range files {
		res.Outcomes[i] = Outcome{
			InputPath: path,
			Err:       &ConversionError{Kind: KindCanceled, Input: path},
		}
	}
	return res
}

func (r *BatchResult) record(i int, o Outcome) {
	r.Outcomes[i] = o
	r.Attempted++
	if o.Success {
		r.Succeeded++
	}
}

// convertOne runs a single conversion, turning a converter panic into a failed
// outcome and returning the panic message.
func convertOne(ctx context.Context, conv Converter, path, outputFormat, outputDir string, opts Options) (o Outcome, panicMsg string) {
	defer func() {
		if rec := recover(); rec != nil {
			panicMsg = fmt.Sprint(rec)
			o = Outcome{
				InputPath: path,
				Err: &ConversionError{
					Kind:  KindDelegateFailure,
					Input: path,
					Err:   fmt.Errorf("converter panic: %v", rec),
				},
			}
		}
	}()

	req, err := NewRequest(path, outputFormat, outputDir, opts)
	if err != nil {
		return Outcome{
			InputPath: path,
			Err:       &ConversionError{Kind: KindUnsupportedOutput, Input: path, Err: err},
		}, ""
	}
	return conv.Convert(ctx, req), ""
}

func progressPercent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}

// warnCollisions logs every input whose output path another input of the same
// batch already claims.
func warnCollisions(logger *slog.Logger, files []string, outputFormat, outputDir string) {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		out := ResolveOutputPath(f, outputFormat, outputDir)
		if first, ok := seen[out]; ok {
			logger.Warn("inputs resolve to the same output", "output", out, "first", first, "input", f)
			continue
		}
		seen[out] = f
	}
}

type nopReporter struct{}

func (nopReporter) Progress(int, string)  {}
func (nopReporter) Complete(bool, string) {}

func reporterOrNop(r Reporter) Reporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

// EventKind distinguishes progress events from the final completion event.
type EventKind int

const (
	EventProgress EventKind = iota + 1
	EventComplete
)

// Event is a progress or completion notification of a background Job.
type Event struct {
	Kind    EventKind
	Percent int
	Message string
	// Success is set on the completion event.
	Success bool
}

// Job is a batch running in the background.
type Job struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	result BatchResult
}

// Events delivers the job's notifications and is closed after the completion
// event. Reading it is optional.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Wait blocks until the batch finishes and returns its result.
func (j *Job) Wait() BatchResult {
	<-j.done
	return j.result
}

// Cancel stops the batch before its next file. A conversion in progress
// finishes.
func (j *Job) Cancel() {
	j.cancel()
}

// channelReporter forwards notifications to a buffer large enough for every
// event a batch can emit, so sends never block.
type channelReporter chan Event

func (c channelReporter) Progress(percent int, message string) {
	c <- Event{Kind: EventProgress, Percent: percent, Message: message}
}

func (c channelReporter) Complete(success bool, message string) {
	c <- Event{Kind: EventComplete, Percent: 100, Message: message, Success: success}
}

func (e *Engine) startJob(ctx context.Context, conv Converter, files []string, outputFormat, outputDir string, opts Options) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		// One progress and one error event per file, plus completion.
		events: make(chan Event, 2*len(files)+1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(j.done)
		defer cancel()
		j.result = e.runBatch(ctx, conv, files, outputFormat, outputDir, opts, channelReporter(j.events))
		close(j.events)
	}()
	return j
}
