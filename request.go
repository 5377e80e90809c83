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
	"fmt"
	"strings"
)

// Quality selects the size/speed trade-off handed to delegates.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// ParseQuality parses a quality name case-insensitively. An empty string yields QualityHigh.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case "":
		return QualityHigh, nil
	case QualityHigh, QualityMedium, QualityLow:
		return q, nil
	}
	return "", fmt.Errorf("invalid quality %q (want high, medium or low)", s)
}

// Options are the recognized per-batch conversion options.
type Options struct {
	Quality   Quality
	Overwrite bool
	// MaintainAspectRatio is informational: no converter resizes.
	MaintainAspectRatio bool
}

// DefaultOptions returns high quality, no overwrite, aspect ratio maintained.
func DefaultOptions() Options {
	return Options{
		Quality:             QualityHigh,
		MaintainAspectRatio: true,
	}
}

// Validate checks the option values. A zero Quality is accepted and treated as high.
func (o Options) Validate() error {
	if o.Quality == "" {
		return nil
	}
	_, err := ParseQuality(string(o.Quality))
	return err
}

func (o Options) quality() Quality {
	if o.Quality == "" {
		return QualityHigh
	}
	return o.Quality
}

// Request is one file to convert.
type Request struct {
	InputPath    string
	OutputFormat string
	OutputDir    string
	Options      Options
}

// NewRequest builds a Request with a normalized output format and validated options.
func NewRequest(inputPath, outputFormat, outputDir string, opts Options) (Request, error) {
	if err := opts.Validate(); err != nil {
		return Request{}, err
	}
	format := NormalizeFormat(outputFormat)
	if format == "" {
		return Request{}, fmt.Errorf("empty output format")
	}
	return Request{
		InputPath:    inputPath,
		OutputFormat: format,
		OutputDir:    outputDir,
		Options:      opts,
	}, nil
}

// NormalizeFormat lower-cases a format or extension and strips leading dots.
func NormalizeFormat(format string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(format)), ".")
}
