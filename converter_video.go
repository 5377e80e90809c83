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
	"os"
	"path/filepath"
	"time"

	"github.com/nicholasgasior/fileconverter-go/internal/ffmpeg"
)

var (
	videoInputs  = []string{"mp4", "avi", "mkv", "mov", "webm", "flv", "wmv", "m4v", "3gp"}
	videoOutputs = []string{"mp4", "avi", "mkv", "mov", "webm", "gif"}
)

var videoBitrate = map[Quality]string{
	QualityHigh:   "8000k",
	QualityMedium: "4000k",
	QualityLow:    "1500k",
}

// videoThreads is the encoder thread count passed to ffmpeg.
const videoThreads = 4

// VideoConverter transcodes video with ffmpeg and extracts clips.
type VideoConverter struct {
	converterBase
	ffmpeg *ffmpeg.Tool
}

// NewVideoConverter creates a VideoConverter. e may be nil.
func NewVideoConverter(e *Engine) *VideoConverter {
	e = engineOrDefault(e)
	return &VideoConverter{
		converterBase: newConverterBase("video", CategoryVideo, videoInputs, videoOutputs, e.logger, e.delegateTimeout),
		ffmpeg:        e.ffmpegTool(),
	}
}

func (c *VideoConverter) Convert(ctx context.Context, req Request) Outcome {
	j, rejected := c.prepare(req)
	if rejected != nil {
		return *rejected
	}
	q := req.Options.quality()
	preset := "medium"
	if q == QualityHigh {
		preset = "slow"
	}
	c.logger.Debug("converting video", "input", req.InputPath, "format", j.outputExt,
		"preset", preset, "maintain_aspect_ratio", req.Options.MaintainAspectRatio)

	return c.run(ctx, j, func(ctx context.Context) error {
		args, err := ffmpeg.VideoArgs(ffmpeg.VideoParams{
			Input:     req.InputPath,
			Output:    j.output,
			Format:    j.outputExt,
			Bitrate:   videoBitrate[q],
			Preset:    preset,
			Threads:   videoThreads,
			Overwrite: true,
		})
		if err != nil {
			return err
		}
		return c.ffmpeg.Run(ctx, args)
	})
}

// ExtractSubclip copies the streams of [start, end) from inputPath into outputPath.
func (c *VideoConverter) ExtractSubclip(ctx context.Context, inputPath, outputPath string, start, end time.Duration) error {
	if !c.inputs[inputExtension(inputPath)] {
		return &ConversionError{
			Kind:   KindUnsupportedInput,
			Input:  inputPath,
			Detail: fmt.Sprintf("extension=%q", inputExtension(inputPath)),
		}
	}
	args, err := ffmpeg.SubclipArgs(inputPath, outputPath, start, end)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	err = c.callDelegate(ctx, func(ctx context.Context) error {
		return c.ffmpeg.Run(ctx, args)
	})
	if err != nil {
		c.logger.Error("subclip failed", "input", inputPath, "error", err)
		return &ConversionError{Kind: KindDelegateFailure, Input: inputPath, Err: err}
	}
	c.logger.Info("subclip extracted", "input", inputPath, "output", outputPath,
		"start", start, "end", end)
	return nil
}
