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
	"strings"

	"github.com/nicholasgasior/fileconverter-go/internal/ooxml"
)

func pdfTextRoute(_ context.Context, in, out string) error {
	pages, err := pdfPages(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(normalizeText(strings.Join(pages, "\n\n"))), 0o644)
}

// pdfDocxRoute writes one paragraph per extracted line, with an empty
// paragraph between pages.
func pdfDocxRoute(_ context.Context, in, out string) error {
	pages, err := pdfPages(in)
	if err != nil {
		return err
	}
	var paras []ooxml.Paragraph
	for i, page := range pages {
		if i > 0 {
			paras = append(paras, ooxml.Paragraph{})
		}
		for _, line := range strings.Split(page, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paras = append(paras, ooxml.Paragraph{Text: line})
			}
		}
	}
	return writeDocx(out, paras)
}

func readDocx(path string) ([]ooxml.Paragraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ooxml.ReadDocx(f, info.Size())
}

func writeDocx(path string, paras []ooxml.Paragraph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ooxml.WriteDocx(f, paras); err != nil {
		f.Close()
		return fmt.Errorf("write DOCX: %w", err)
	}
	return f.Close()
}

// docxTextRoute writes every paragraph on its own line.
func docxTextRoute(_ context.Context, in, out string) error {
	paras, err := readDocx(in)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, p := range paras {
		b.WriteString(p.Text)
		b.WriteByte('\n')
	}
	return os.WriteFile(out, []byte(b.String()), 0o644)
}

// docxHTML renders the paragraphs of a DOCX file. math formats each
// equation run.
func docxHTML(in string, math func(ooxml.Run) string) (*htmlDoc, error) {
	paras, err := readDocx(in)
	if err != nil {
		return nil, err
	}
	d := newHTMLDoc(baseName(in))
	for _, p := range paras {
		text := p.Text
		if p.Runs != nil {
			var b strings.Builder
			for _, r := range p.Runs {
				if r.Math {
					b.WriteString(math(r))
				} else {
					b.WriteString(r.Text)
				}
			}
			text = b.String()
		}
		switch {
		case p.Heading > 0:
			d.heading(p.Heading, text)
		case strings.TrimSpace(text) != "":
			d.paragraph(text)
		}
	}
	return d, nil
}

// dollarMath delimits an equation the way Markdown renderers expect:
// $...$ inline and $$...$$ for display equations.
func dollarMath(r ooxml.Run) string {
	if r.Display {
		return "$$" + r.Text + "$$"
	}
	return "$" + r.Text + "$"
}

func docxHTMLRoute(_ context.Context, in, out string) error {
	d, err := docxHTML(in, dollarMath)
	if err != nil {
		return err
	}
	return writeHTML(out, d)
}

// docxMarkdownRoute keeps equations out of the HTML-to-Markdown pass, which
// would escape their LaTeX, and splices them back in afterwards.
func docxMarkdownRoute(_ context.Context, in, out string) error {
	var equations []string
	d, err := docxHTML(in, func(r ooxml.Run) string {
		equations = append(equations, dollarMath(r))
		return fmt.Sprintf("fcvmath%dx", len(equations)-1)
	})
	if err != nil {
		return err
	}
	md, err := htmlToMarkdown(d.String())
	if err != nil {
		return err
	}
	pairs := make([]string, 0, 2*len(equations))
	for i, eq := range equations {
		pairs = append(pairs, fmt.Sprintf("fcvmath%dx", i), eq)
	}
	md = strings.NewReplacer(pairs...).Replace(md)
	return os.WriteFile(out, []byte(normalizeText(md)), 0o644)
}

func readText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(decodeText(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

// textDocxRoute writes one paragraph per input line.
func textDocxRoute(_ context.Context, in, out string) error {
	lines, err := readText(in)
	if err != nil {
		return err
	}
	paras := make([]ooxml.Paragraph, 0, len(lines))
	for _, line := range lines {
		paras = append(paras, ooxml.Paragraph{Text: strings.TrimSpace(line)})
	}
	return writeDocx(out, paras)
}

// textHTMLRoute groups consecutive non-blank lines into paragraphs.
func textHTMLRoute(_ context.Context, in, out string) error {
	lines, err := readText(in)
	if err != nil {
		return err
	}
	d := newHTMLDoc(baseName(in))
	var block []string
	flush := func() {
		if len(block) > 0 {
			d.paragraph(strings.Join(block, "\n"))
			block = block[:0]
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, strings.TrimRight(line, " \t"))
	}
	flush()
	return writeHTML(out, d)
}

// slidesTextRoute writes each slide under a "Slide N" header, followed by its
// speaker notes.
func slidesTextRoute(_ context.Context, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	slides, err := ooxml.ReadSlides(f, info.Size())
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, s := range slides {
		fmt.Fprintf(&b, "Slide %d\n", s.Number)
		for _, p := range s.Paragraphs {
			b.WriteString(p)
			b.WriteByte('\n')
		}
		if len(s.Notes) > 0 {
			b.WriteString("\nNotes:\n")
			b.WriteString(strings.Join(s.Notes, "\n"))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(out, []byte(normalizeText(b.String())), 0o644)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
