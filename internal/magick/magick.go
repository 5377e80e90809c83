// Package magick converts images that have no native Go encoder or decoder
// (WebP output, SVG) with the ImageMagick command line.
package magick

import (
	"context"
	"strconv"

	"github.com/nicholasgasior/fileconverter-go/internal/delegate"
)

// DefaultBinary is the ImageMagick 7 entry point.
const DefaultBinary = "magick"

// Tool runs ImageMagick.
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

// Available reports whether the binary is on PATH.
func (t *Tool) Available() bool {
	_, err := t.Runner.LookPath(t.Binary)
	return err == nil
}

// Args returns the command line converting input to output at quality 1-100.
func Args(input, output string, quality int) []string {
	return []string{input, "-quality", strconv.Itoa(quality), output}
}

// Convert converts input to output; the output format follows the output extension.
func (t *Tool) Convert(ctx context.Context, input, output string, quality int) error {
	return delegate.Exec(ctx, t.Runner, t.Binary, Args(input, output, quality)...)
}
