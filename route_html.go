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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlDoc builds an HTML document node by node so every text route that
// produces html renders through the same escaper.
type htmlDoc struct {
	root *html.Node
	body *html.Node
}

func newHTMLDoc(title string) *htmlDoc {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if title != "" {
		head.AppendChild(textElement(atom.Title, title))
	}
	body := element(atom.Body)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)
	return &htmlDoc{root: root, body: body}
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

var headingAtoms = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// heading appends an <hN>; levels outside 1-6 are clamped.
func (d *htmlDoc) heading(level int, text string) {
	level = max(1, min(level, len(headingAtoms)))
	d.body.AppendChild(textElement(headingAtoms[level-1], text))
}

// paragraph appends a <p>, turning newlines into <br>.
func (d *htmlDoc) paragraph(text string) {
	p := element(atom.P)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.AppendChild(element(atom.Br))
		}
		if line != "" {
			p.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
	d.body.AppendChild(p)
}

// link appends a paragraph holding a single anchor.
func (d *htmlDoc) link(href, text string) {
	a := textElement(atom.A, text)
	a.Attr = []html.Attribute{{Key: "href", Val: href}}
	p := element(atom.P)
	p.AppendChild(a)
	d.body.AppendChild(p)
}

// fragment parses markup and appends it inside a <div>. Unparseable markup is
// added as text.
func (d *htmlDoc) fragment(markup string) {
	div := element(atom.Div)
	nodes, err := html.ParseFragment(strings.NewReader(markup), div)
	if err != nil {
		div.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
	}
	for _, n := range nodes {
		div.AppendChild(n)
	}
	d.body.AppendChild(div)
}

// table appends a <table>; the first row becomes the header.
func (d *htmlDoc) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	tbl := element(atom.Table)
	thead, tbody := element(atom.Thead), element(atom.Tbody)
	for i, r := range rows {
		tr := element(atom.Tr)
		cell := atom.Td
		if i == 0 {
			cell = atom.Th
		}
		for c := 0; c < width; c++ {
			v := ""
			if c < len(r) {
				v = r[c]
			}
			tr.AppendChild(textElement(cell, v))
		}
		if i == 0 {
			thead.AppendChild(tr)
		} else {
			tbody.AppendChild(tr)
		}
	}
	tbl.AppendChild(thead)
	if tbody.FirstChild != nil {
		tbl.AppendChild(tbody)
	}
	d.body.AppendChild(tbl)
}

func (d *htmlDoc) render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *htmlDoc) String() string {
	var buf bytes.Buffer
	if err := d.render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

var (
	reScript  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reDataURI = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)
)

// htmlToMarkdown converts markup to CommonMark with ATX headings and tables.
func htmlToMarkdown(markup string) (string, error) {
	markup = reScript.ReplaceAllString(markup, "")
	markup = reStyle.ReplaceAllString(markup, "")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("convert HTML to markdown: %w", err)
	}
	return reDataURI.ReplaceAllString(md, "${1}..."), nil
}

// blockElements end a line when rendered as text.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Pre: true, atom.Blockquote: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true, atom.Hr: true,
}

// htmlToText extracts the visible text of markup, one block per line.
func htmlToText(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var b strings.Builder
	space := func() {
		if s := b.String(); s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			b.WriteByte(' ')
		}
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words := strings.Fields(n.Data)
			if len(words) == 0 {
				if n.Data != "" {
					space()
				}
				return
			}
			if strings.TrimLeftFunc(n.Data, unicode.IsSpace) != n.Data {
				space()
			}
			b.WriteString(strings.Join(words, " "))
			if strings.TrimRightFunc(n.Data, unicode.IsSpace) != n.Data {
				b.WriteByte(' ')
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head, atom.Noscript, atom.Template:
				return
			case atom.Td, atom.Th:
				for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
					if prev.Type == html.ElementNode {
						b.WriteByte('\t')
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			b.WriteByte('\n')
		}
	}
	walk(doc)
	return normalizeText(b.String()), nil
}

func readHTML(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeText(data), nil
}

func htmlMarkdownRoute(_ context.Context, in, out string) error {
	markup, err := readHTML(in)
	if err != nil {
		return err
	}
	md, err := htmlToMarkdown(markup)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(normalizeText(md)), 0o644)
}

func htmlTextRoute(_ context.Context, in, out string) error {
	markup, err := readHTML(in)
	if err != nil {
		return err
	}
	text, err := htmlToText(markup)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(text), 0o644)
}

// writeHTML renders d into path.
func writeHTML(path string, d *htmlDoc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.render(f); err != nil {
		f.Close()
		return fmt.Errorf("render HTML: %w", err)
	}
	return f.Close()
}
