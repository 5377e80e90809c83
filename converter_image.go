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
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/nicholasgasior/fileconverter-go/internal/magick"
)

var (
	imageInputs  = []string{"png", "jpg", "jpeg", "gif", "webp", "tiff", "bmp", "svg"}
	imageOutputs = []string{"png", "jpg", "jpeg", "gif", "webp", "tiff", "bmp", "svg"}
)

// imageQuality maps Quality to the JPEG/WebP quality scale.
var imageQuality = map[Quality]int{
	QualityHigh:   95,
	QualityMedium: 75,
	QualityLow:    50,
}

// ImageConverter converts raster images natively and falls back to ImageMagick
// for formats Go cannot encode or decode.
type ImageConverter struct {
	converterBase
	magick *magick.Tool
}

// NewImageConverter creates an ImageConverter. e may be nil.
func NewImageConverter(e *Engine) *ImageConverter {
	e = engineOrDefault(e)
	return &ImageConverter{
		converterBase: newConverterBase("image", CategoryImage, imageInputs, imageOutputs, e.logger, e.delegateTimeout),
		magick:        e.magickTool(),
	}
}

func (c *ImageConverter) Convert(ctx context.Context, req Request) Outcome {
	j, rejected := c.prepare(req)
	if rejected != nil {
		return *rejected
	}
	quality := imageQuality[req.Options.quality()]
	c.logger.Debug("converting image", "input", req.InputPath, "format", j.outputExt, "quality", quality)

	if needsMagick(j.inputExt, j.outputExt) {
		return c.run(ctx, j, func(ctx context.Context) error {
			return c.magick.Convert(ctx, req.InputPath, j.output, quality)
		})
	}
	return c.run(ctx, j, func(ctx context.Context) error {
		return encodeImage(req.InputPath, j.output, j.outputExt, quality)
	})
}

// needsMagick reports whether a conversion has no native Go path.
func needsMagick(in, out string) bool {
	switch {
	case in == "svg", out == "svg", out == "webp":
		return true
	}
	return false
}

func encodeImage(input, output, format string, quality int) error {
	img, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	var opts []imaging.EncodeOption
	switch format {
	case "jpg", "jpeg":
		img = flattenOnWhite(img)
		opts = append(opts, imaging.JPEGQuality(quality))
	case "png":
		opts = append(opts, imaging.PNGCompressionLevel(png.BestCompression))
	}

	if err := imaging.Save(img, output, opts...); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// flattenOnWhite composites img over an opaque white background.
func flattenOnWhite(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
