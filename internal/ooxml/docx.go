package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nicholasgasior/fileconverter-go/internal/docxmath"
)

// Paragraph is one block of a word-processing document. Heading is 1-6 for
// heading paragraphs and 0 for body text. Equations appear in Text as LaTeX;
// Runs is set only for paragraphs holding an equation and splits Text into
// plain and math segments.
type Paragraph struct {
	Text    string
	Heading int
	Runs    []Run
}

// Run is a segment of a paragraph. Math runs hold LaTeX; Display marks an
// equation that stands on its own line.
type Run struct {
	Text    string
	Math    bool
	Display bool
}

// ReadDocx extracts the body paragraphs of a DOCX package.
func ReadDocx(r io.ReaderAt, size int64) ([]Paragraph, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}
	styles := readStyleNames(zr)

	data, err := ReadFile(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("read document.xml: %w", err)
	}

	var (
		paras []Paragraph
		cur   strings.Builder
		seg   strings.Builder
		runs  []Run
		style string
		inP   bool
		inT   bool
	)
	write := func(s string) {
		cur.WriteString(s)
		seg.WriteString(s)
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == docxmath.Namespace && (t.Name.Local == "oMath" || t.Name.Local == "oMathPara") {
				var eq docxmath.Node
				if err := dec.DecodeElement(&eq, &t); err != nil {
					return nil, fmt.Errorf("parse equation: %w", err)
				}
				latex := docxmath.LaTeX(&eq)
				if !inP || latex == "" {
					continue
				}
				if seg.Len() > 0 {
					runs = append(runs, Run{Text: seg.String()})
					seg.Reset()
				}
				runs = append(runs, Run{Text: latex, Math: true, Display: docxmath.IsDisplay(&eq)})
				cur.WriteString(latex)
				continue
			}
			switch t.Name.Local {
			case "p":
				inP = true
				cur.Reset()
				seg.Reset()
				runs = nil
				style = ""
			case "pStyle":
				style = attr(t, "val")
			case "t":
				inT = true
			case "tab":
				if inP {
					write("\t")
				}
			case "br", "cr":
				if inP {
					write("\n")
				}
			}
		case xml.CharData:
			if inT {
				write(string(t))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				if inP {
					if runs != nil && seg.Len() > 0 {
						runs = append(runs, Run{Text: seg.String()})
					}
					paras = append(paras, Paragraph{
						Text:    cur.String(),
						Heading: headingLevel(style, styles),
						Runs:    runs,
					})
				}
				inP = false
			}
		}
	}
	return paras, nil
}

// readStyleNames maps style IDs to their display names.
func readStyleNames(zr *zip.Reader) map[string]string {
	names := make(map[string]string)
	data, err := ReadFile(zr, "word/styles.xml")
	if err != nil {
		return names
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var id string
	for {
		tok, err := dec.Token()
		if err != nil {
			return names
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "style":
			id = attr(se, "styleId")
		case "name":
			if id != "" {
				names[id] = attr(se, "val")
			}
		}
	}
}

// headingLevel recognizes "Heading1", "heading 2" and "Title" styles by ID or name.
func headingLevel(styleID string, names map[string]string) int {
	for _, s := range []string{styleID, names[styleID]} {
		s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
		if s == "title" {
			return 1
		}
		if n, ok := strings.CutPrefix(s, "heading"); ok {
			if lvl, err := strconv.Atoi(n); err == nil && lvl >= 1 && lvl <= 6 {
				return lvl
			}
		}
	}
	return 0
}

// WriteDocx writes a minimal DOCX package holding paras. Headings use the
// built-in "Heading N" styles.
func WriteDocx(w io.Writer, paras []Paragraph) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body any
	}{
		{"[Content_Types].xml", contentTypes()},
		{"_rels/.rels", &Relationships{
			Xmlns: NSRelationships,
			Relationships: []Relationship{{
				ID:     "rId1",
				Type:   NSRelDoc + "/officeDocument",
				Target: "word/document.xml",
			}},
		}},
		{"word/_rels/document.xml.rels", &Relationships{
			Xmlns: NSRelationships,
			Relationships: []Relationship{{
				ID:     "rId1",
				Type:   NSRelDoc + "/styles",
				Target: "styles.xml",
			}},
		}},
		{"word/document.xml", newDocument(paras)},
		{"word/styles.xml", newStyles()},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(f, xml.Header); err != nil {
			return err
		}
		if err := xml.NewEncoder(f).Encode(p.body); err != nil {
			return fmt.Errorf("encode %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

type typesPart struct {
	XMLName   xml.Name       `xml:"Types"`
	Xmlns     string         `xml:"xmlns,attr"`
	Defaults  []typeDefault  `xml:"Default"`
	Overrides []typeOverride `xml:"Override"`
}

type typeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type typeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func contentTypes() *typesPart {
	const wml = "application/vnd.openxmlformats-officedocument.wordprocessingml."
	return &typesPart{
		Xmlns: NSContentTypes,
		Defaults: []typeDefault{
			{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
			{"xml", "application/xml"},
		},
		Overrides: []typeOverride{
			{"/word/document.xml", wml + "document.main+xml"},
			{"/word/styles.xml", wml + "styles+xml"},
		},
	}
}

// The writer emits prefixed WordprocessingML names literally; encoding/xml
// cannot produce a prefixed default namespace from struct tags.
type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
}

type wParagraph struct {
	Props *wParaProps `xml:"w:pPr,omitempty"`
	Runs  []wRun      `xml:"w:r"`
}

type wParaProps struct {
	Style wVal `xml:"w:pStyle"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wRun struct {
	Items []any
}

type wText struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type wBreak struct {
	XMLName xml.Name `xml:"w:br"`
}

type wTab struct {
	XMLName xml.Name `xml:"w:tab"`
}

func (r wRun) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, it := range r.Items {
		if err := e.Encode(it); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func newDocument(paras []Paragraph) *wDocument {
	doc := &wDocument{XmlnsW: NSWordprocessingML}
	for _, p := range paras {
		wp := wParagraph{}
		if p.Heading > 0 {
			wp.Props = &wParaProps{Style: wVal{Val: "Heading" + strconv.Itoa(min(p.Heading, 6))}}
		}
		wp.Runs = []wRun{{Items: runItems(p.Text)}}
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, wp)
	}
	return doc
}

// runItems splits text on line breaks and tabs.
func runItems(text string) []any {
	var items []any
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			items = append(items, wBreak{})
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				items = append(items, wTab{})
			}
			if chunk != "" {
				items = append(items, wText{Space: "preserve", Text: chunk})
			}
		}
	}
	return items
}

type wStyles struct {
	XMLName xml.Name `xml:"w:styles"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Styles  []wStyle `xml:"w:style"`
}

type wStyle struct {
	Type    string      `xml:"w:type,attr"`
	StyleID string      `xml:"w:styleId,attr"`
	Name    wVal        `xml:"w:name"`
	RunPr   *wStyleRunP `xml:"w:rPr,omitempty"`
}

type wStyleRunP struct {
	Bold *struct{} `xml:"w:b"`
	Size wVal      `xml:"w:sz"`
}

// headingSizes are half-point font sizes for Heading1 through Heading6.
var headingSizes = []int{40, 32, 28, 26, 24, 22}

func newStyles() *wStyles {
	s := &wStyles{
		XmlnsW: NSWordprocessingML,
		Styles: []wStyle{{Type: "paragraph", StyleID: "Normal", Name: wVal{Val: "Normal"}}},
	}
	for i, sz := range headingSizes {
		s.Styles = append(s.Styles, wStyle{
			Type:    "paragraph",
			StyleID: "Heading" + strconv.Itoa(i+1),
			Name:    wVal{Val: "heading " + strconv.Itoa(i+1)},
			RunPr:   &wStyleRunP{Bold: &struct{}{}, Size: wVal{Val: strconv.Itoa(sz)}},
		})
	}
	return s
}
