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
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a single file failed to convert.
type FailureKind int

const (
	// KindUnsupportedInput means the input extension is not handled by the converter.
	KindUnsupportedInput FailureKind = iota + 1
	// KindUnsupportedOutput means the requested output format is not produced by the converter.
	KindUnsupportedOutput
	// KindDestinationConflict means the output path exists and overwrite is disabled.
	KindDestinationConflict
	// KindUnmappedRoute means the document converter has no route for the format pair.
	KindUnmappedRoute
	// KindDelegateFailure means the underlying library or subprocess failed.
	KindDelegateFailure
	// KindCanceled means the batch was canceled before the file was attempted.
	KindCanceled
)

func (k FailureKind) String() string {
	switch k {
	case KindUnsupportedInput:
		return "unsupported input format"
	case KindUnsupportedOutput:
		return "unsupported output format"
	case KindDestinationConflict:
		return "destination exists"
	case KindUnmappedRoute:
		return "conversion path not supported"
	case KindDelegateFailure:
		return "delegate failure"
	case KindCanceled:
		return "canceled"
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// ConversionError describes a failed conversion of one file.
type ConversionError struct {
	Kind  FailureKind
	Input string
	// Detail is a short description such as the offending extension or route.
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	parts := []string{e.Kind.String()}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Input != "" {
		parts = append(parts, fmt.Sprintf("input=%q", e.Input))
	}
	msg := strings.Join(parts, " ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ConversionError of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var target *ConversionError
	return errors.As(err, &target) && target.Kind == kind
}

// NoConverterError is returned when no registered converter produces the requested format.
// It is a caller-level configuration error, reported before any file is attempted.
type NoConverterError struct {
	Format string
}

func (e *NoConverterError) Error() string {
	return fmt.Sprintf("no converter available for %q format", e.Format)
}

// IsNoConverter reports whether the error is a NoConverterError.
func IsNoConverter(err error) bool {
	var target *NoConverterError
	return errors.As(err, &target)
}
