package ffmpeg

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioArgs(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"mp3", []string{"-c:a", "libmp3lame", "-b:a", "192k", "-metadata", "artist=" + Artist}},
		{"wav", []string{"-c:a", "pcm_s16le", "-ar", "44100"}},
		{"flac", []string{"-c:a", "flac", "-sample_fmt", "s16"}},
		{"aac", []string{"-c:a", "aac", "-b:a", "192k", "-f", "adts"}},
		{"ogg", []string{"-c:a", "libvorbis", "-b:a", "192k"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			args, err := AudioArgs(AudioParams{
				Input: "in.flac", Output: "out." + tt.format, Format: tt.format, Bitrate: "192k",
			})
			require.NoError(t, err)

			joined := strings.Join(args, " ")
			for i := 0; i+1 < len(tt.want); i += 2 {
				assert.Contains(t, joined, tt.want[i]+" "+tt.want[i+1])
			}
			assert.Equal(t, "out."+tt.format, args[len(args)-1])
			assert.Contains(t, args, "-n")
		})
	}

	_, err := AudioArgs(AudioParams{Format: "wma"})
	assert.Error(t, err)
}

func TestVideoArgs(t *testing.T) {
	args, err := VideoArgs(VideoParams{
		Input: "in.avi", Output: "out.mp4", Format: "mp4",
		Bitrate: "8000k", Preset: "slow", Threads: 4, Overwrite: true,
	})
	require.NoError(t, err)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-y -i in.avi")
	assert.Contains(t, joined, "-threads 4")
	assert.Contains(t, joined, "-c:v libx264 -preset slow -b:v 8000k")

	args, err = VideoArgs(VideoParams{Input: "in.mp4", Output: "out.gif", Format: "gif"})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(args, " "), "-vf fps=15")

	_, err = VideoArgs(VideoParams{Format: "flv"})
	assert.Error(t, err)
}

func TestSubclipArgs(t *testing.T) {
	args, err := SubclipArgs("in.mp4", "clip.mp4", 1500*time.Millisecond, 4*time.Second)
	require.NoError(t, err)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-ss 1.500 -i in.mp4 -t 2.500")
	assert.Equal(t, "clip.mp4", args[len(args)-1])

	_, err = SubclipArgs("in.mp4", "clip.mp4", 4*time.Second, 4*time.Second)
	assert.Error(t, err)
	_, err = SubclipArgs("in.mp4", "clip.mp4", -time.Second, time.Second)
	assert.Error(t, err)
}

type recordingRunner struct {
	name string
	args []string
}

func (r *recordingRunner) LookPath(file string) (string, error) { return file, nil }

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.name, r.args = name, args
	return "", nil
}

func TestToolRun(t *testing.T) {
	r := &recordingRunner{}
	tool := New("", r)
	require.NoError(t, tool.Run(context.Background(), []string{"-version"}))
	assert.Equal(t, DefaultBinary, r.name)
	assert.Equal(t, []string{"-version"}, r.args)
	assert.True(t, tool.Available())
}
