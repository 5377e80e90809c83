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

// Package ffmpeg builds ffmpeg command lines for audio transcoding, video
// transcoding and range extraction, and runs them through a delegate.Runner.
package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nicholasgasior/fileconverter-go/internal/delegate"
)

// DefaultBinary is the ffmpeg executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// Artist is written into the tags of MP3 output.
const Artist = "Universal File Converter"

// Tool runs ffmpeg.
type Tool struct {
	Binary string
	Runner delegate.Runner
}

// New returns a Tool for binary ("" selects DefaultBinary).
func New(binary string, r delegate.Runner) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	if r == nil {
		r = delegate.ExecRunner{}
	}
	return &Tool{Binary: binary, Runner: r}
}

// Run executes ffmpeg with args.
func (t *Tool) Run(ctx context.Context, args []string) error {
	return delegate.Exec(ctx, t.Runner, t.Binary, args...)
}

// Available reports whether the binary is on PATH.
func (t *Tool) Available() bool {
	_, err := t.Runner.LookPath(t.Binary)
	return err == nil
}

// AudioParams describes one audio transcode.
type AudioParams struct {
	Input     string
	Output    string
	Format    string // mp3, wav, flac, aac, ogg
	Bitrate   string // e.g. "320k"
	Overwrite bool
}

// AudioArgs returns the ffmpeg arguments for an audio transcode.
func AudioArgs(p AudioParams) ([]string, error) {
	args := commonArgs(p.Input, p.Overwrite)
	args = append(args, "-vn")

	switch p.Format {
	case "mp3":
		args = append(args, "-c:a", "libmp3lame", "-b:a", p.Bitrate,
			"-id3v2_version", "4", "-metadata", "artist="+Artist)
	case "wav":
		args = append(args, "-c:a", "pcm_s16le", "-ar", "44100")
	case "flac":
		args = append(args, "-c:a", "flac", "-sample_fmt", "s16", "-ar", "44100")
	case "aac":
		args = append(args, "-c:a", "aac", "-b:a", p.Bitrate, "-f", "adts")
	case "ogg":
		args = append(args, "-c:a", "libvorbis", "-b:a", p.Bitrate)
	default:
		return nil, fmt.Errorf("no audio encoder for %q", p.Format)
	}

	return append(args, p.Output), nil
}

// VideoParams describes one video transcode.
type VideoParams struct {
	Input     string
	Output    string
	Format    string // mp4, avi, mkv, mov, webm, gif
	Bitrate   string // e.g. "8000k"
	Preset    string // x264 preset
	Threads   int
	Overwrite bool
}

// GIFFrameRate is the frame rate of animated GIF output.
const GIFFrameRate = 15

// VideoArgs returns the ffmpeg arguments for a video transcode.
func VideoArgs(p VideoParams) ([]string, error) {
	args := commonArgs(p.Input, p.Overwrite)
	if p.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(p.Threads))
	}

	switch p.Format {
	case "gif":
		args = append(args, "-vf", fmt.Sprintf("fps=%d", GIFFrameRate), "-loop", "0", "-an")
	case "mp4":
		args = append(args, "-c:v", "libx264", "-preset", p.Preset, "-b:v", p.Bitrate,
			"-c:a", "aac", "-movflags", "+faststart")
	case "webm":
		args = append(args, "-c:v", "libvpx-vp9", "-b:v", p.Bitrate, "-c:a", "libopus")
	case "avi", "mkv", "mov":
		args = append(args, "-b:v", p.Bitrate, "-c:a", "libmp3lame")
	default:
		return nil, fmt.Errorf("no video encoder for %q", p.Format)
	}

	return append(args, p.Output), nil
}

// SubclipArgs returns the arguments that copy the streams of [start, end) into output.
func SubclipArgs(input, output string, start, end time.Duration) ([]string, error) {
	if start < 0 {
		return nil, fmt.Errorf("negative start time %s", start)
	}
	if end <= start {
		return nil, fmt.Errorf("end time %s is not after start time %s", end, start)
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", seconds(start),
		"-i", input,
		"-t", seconds(end - start),
		"-map", "0", "-c:v", "copy", "-c:a", "copy",
		output,
	}, nil
}

func commonArgs(input string, overwrite bool) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	return append(args, "-i", input)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
