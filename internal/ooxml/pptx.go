package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Slide holds the text of one slide in presentation order.
type Slide struct {
	Number int
	// Paragraphs are the non-empty text paragraphs of every shape on the slide.
	Paragraphs []string
	Notes      []string
}

// ReadSlides extracts slide and speaker-note text from a PPTX package.
func ReadSlides(r io.ReaderAt, size int64) ([]Slide, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open PPTX: %w", err)
	}
	order, err := slideOrder(zr)
	if err != nil {
		return nil, err
	}

	slides := make([]Slide, 0, len(order))
	for i, part := range order {
		data, err := ReadFile(zr, part)
		if err != nil {
			continue
		}
		s := Slide{Number: i + 1}
		if s.Paragraphs, err = drawingParagraphs(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", part, err)
		}
		if notes := notesPart(zr, part); notes != "" {
			if nd, err := ReadFile(zr, notes); err == nil {
				s.Notes, _ = drawingParagraphs(nd)
			}
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// slideOrder follows the sldIdLst of presentation.xml, falling back to part
// names when the list is missing.
func slideOrder(zr *zip.Reader) ([]string, error) {
	const pres = "ppt/presentation.xml"
	data, err := ReadFile(zr, pres)
	if err != nil {
		return nil, err
	}
	rels, err := ParseRelationships(zr, RelsPathFor(pres))
	if err != nil {
		return nil, err
	}

	var parts []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "id" && a.Name.Space == NSRelDoc {
				if rel, ok := rels[a.Value]; ok {
					parts = append(parts, ResolveTarget(pres, rel.Target))
				}
			}
		}
	}

	if len(parts) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				parts = append(parts, f.Name)
			}
		}
		sort.Strings(parts)
	}
	return parts, nil
}

func notesPart(zr *zip.Reader, slide string) string {
	rels, err := ParseRelationships(zr, RelsPathFor(slide))
	if err != nil {
		return ""
	}
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, "/notesSlide") {
			return ResolveTarget(slide, rel.Target)
		}
	}
	return ""
}

// drawingParagraphs collects the text of every a:p paragraph.
func drawingParagraphs(data []byte) ([]string, error) {
	var (
		out []string
		cur strings.Builder
		inT bool
	)
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != NSDrawingML {
				continue
			}
			switch t.Name.Local {
			case "p":
				cur.Reset()
			case "t":
				inT = true
			case "br":
				cur.WriteByte('\n')
			}
		case xml.CharData:
			if inT {
				cur.Write(t)
			}
		case xml.EndElement:
			if t.Name.Space != NSDrawingML {
				continue
			}
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				if s := strings.TrimSpace(cur.String()); s != "" {
					out = append(out, s)
				}
			}
		}
	}
}
