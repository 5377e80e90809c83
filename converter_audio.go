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

	"github.com/nicholasgasior/fileconverter-go/internal/ffmpeg"
)

var (
	audioInputs  = []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a"}
	audioOutputs = []string{"mp3", "wav", "flac", "aac", "ogg"}
)

var audioBitrate = map[Quality]string{
	QualityHigh:   "320k",
	QualityMedium: "192k",
	QualityLow:    "128k",
}

// AudioConverter transcodes audio with ffmpeg.
type AudioConverter struct {
	converterBase
	ffmpeg *ffmpeg.Tool
}

// NewAudioConverter creates an AudioConverter. e may be nil.
func NewAudioConverter(e *Engine) *AudioConverter {
	e = engineOrDefault(e)
	return &AudioConverter{
		converterBase: newConverterBase("audio", CategoryAudio, audioInputs, audioOutputs, e.logger, e.delegateTimeout),
		ffmpeg:        e.ffmpegTool(),
	}
}

func (c *AudioConverter) Convert(ctx context.Context, req Request) Outcome {
	j, rejected := c.prepare(req)
	if rejected != nil {
		return *rejected
	}
	return c.run(ctx, j, func(ctx context.Context) error {
		args, err := ffmpeg.AudioArgs(ffmpeg.AudioParams{
			Input:     req.InputPath,
			Output:    j.output,
			Format:    j.outputExt,
			Bitrate:   audioBitrate[req.Options.quality()],
			Overwrite: true,
		})
		if err != nil {
			return err
		}
		return c.ffmpeg.Run(ctx, args)
	})
}
