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
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Category is the coarse kind of a file.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryImage
	CategoryVideo
	CategoryDocument
	CategoryAudio
)

// Categories lists the concrete categories in dispatch precedence order.
var Categories = []Category{CategoryImage, CategoryVideo, CategoryDocument, CategoryAudio}

func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryVideo:
		return "video"
	case CategoryDocument:
		return "document"
	case CategoryAudio:
		return "audio"
	}
	return "unknown"
}

// ParseCategory parses a category name as returned by String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return CategoryImage, nil
	case "video":
		return CategoryVideo, nil
	case "document":
		return CategoryDocument, nil
	case "audio":
		return CategoryAudio, nil
	case "unknown":
		return CategoryUnknown, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// DefaultCategoryExtensions returns the recognized extensions per category.
// The sets are disjoint.
func DefaultCategoryExtensions() map[Category][]string {
	return map[Category][]string{
		CategoryImage: {"png", "jpg", "jpeg", "gif", "webp", "tiff", "tif", "bmp", "svg", "raw", "psd"},
		CategoryVideo: {"mp4", "avi", "mkv", "mov", "webm", "flv", "wmv", "m4v", "3gp"},
		CategoryDocument: {
			"pdf", "docx", "doc", "txt", "rtf", "odt", "xlsx", "xls", "csv", "pptx", "ppt",
			"html", "htm", "md", "json", "xml", "rss", "atom",
		},
		CategoryAudio: {"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a"},
	}
}

// extensionIndex maps extension to category, rejecting extensions claimed twice.
func extensionIndex(sets map[Category][]string) (map[string]Category, error) {
	index := make(map[string]Category)
	for _, cat := range Categories {
		for _, ext := range sets[cat] {
			ext = NormalizeFormat(ext)
			if prev, ok := index[ext]; ok && prev != cat {
				return nil, fmt.Errorf("extension %q claimed by both %s and %s", ext, prev, cat)
			}
			index[ext] = cat
		}
	}
	return index, nil
}

var defaultExtensionIndex = mustExtensionIndex(DefaultCategoryExtensions())

func mustExtensionIndex(sets map[Category][]string) map[string]Category {
	index, err := extensionIndex(sets)
	if err != nil {
		panic(err)
	}
	return index
}

// Classify returns the category of path using the default extension sets.
func Classify(path string) Category {
	return classifyWith(defaultExtensionIndex, path)
}

// classifyWith looks up the extension, then the system MIME table, then sniffs the
// file content for an image signature. It never fails.
func classifyWith(index map[string]Category, path string) Category {
	ext := inputExtension(path)
	if cat, ok := index[ext]; ok {
		return cat
	}

	if ext != "" {
		if cat := categoryFromMIME(mime.TypeByExtension("." + ext)); cat != CategoryUnknown {
			return cat
		}
	}

	if sniffImage(path) {
		return CategoryImage
	}
	return CategoryUnknown
}

// categoryFromMIME maps a MIME type's top-level type to a category.
func categoryFromMIME(mt string) Category {
	mt = strings.ToLower(mt)
	switch {
	case mt == "":
		return CategoryUnknown
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case strings.HasPrefix(mt, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mt, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(mt, "application/"), strings.HasPrefix(mt, "text/"):
		return CategoryDocument
	}
	return CategoryUnknown
}

// sniffImage reports whether the file content carries an image signature.
func sniffImage(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
