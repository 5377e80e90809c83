//go:build nopdfium

package fileconverter

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPages returns the text of every page of a PDF.
func pdfPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page))
	}
	return pages, nil
}

// pageText joins the words of each row; the library marks word gaps with
// empty strings.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		text, _ := page.GetPlainText(nil)
		return strings.TrimSpace(text)
	}

	var out strings.Builder
	for _, row := range rows {
		var line strings.Builder
		gap := false
		for _, word := range row.Content {
			if word.S == "" {
				gap = true
				continue
			}
			if gap && line.Len() > 0 && !strings.HasSuffix(line.String(), " ") {
				line.WriteByte(' ')
			}
			line.WriteString(word.S)
			gap = false
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
	}
	return strings.TrimSpace(out.String())
}
