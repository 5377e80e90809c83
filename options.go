package fileconverter

import (
	"log/slog"
	"time"

	"github.com/nicholasgasior/fileconverter-go/internal/delegate"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger converters and batches report to
// (default: a logger that discards everything).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRunner replaces the runner used for external tools.
func WithRunner(r delegate.Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithWorkers sets how many files a batch converts at once (default: 1).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithDelegateTimeout bounds each library or subprocess call. Zero, the
// default, means no timeout.
func WithDelegateTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delegateTimeout = d
		}
	}
}

// WithFFmpegBinary sets the ffmpeg executable (default: "ffmpeg").
func WithFFmpegBinary(path string) Option {
	return func(e *Engine) {
		e.ffmpegBinary = path
	}
}

// WithOfficeBinary sets the office engine executable
// (default: "libreoffice", or "soffice" on Windows).
func WithOfficeBinary(path string) Option {
	return func(e *Engine) {
		e.officeBinary = path
	}
}

// WithMagickBinary sets the ImageMagick executable (default: "magick").
func WithMagickBinary(path string) Option {
	return func(e *Engine) {
		e.magickBinary = path
	}
}
