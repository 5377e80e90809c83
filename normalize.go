package fileconverter

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reTrailingSpace = regexp.MustCompile(`[ \t]+\n`)
	reBlankRuns     = regexp.MustCompile(`\n{3,}`)
	reLineBreak     = regexp.MustCompile(`\r\n?`)
)

// normalizeText cleans extracted text before it is written to a txt or md
// destination: LF line endings, no control characters other than tab and
// newline, no trailing blanks, at most one empty line in a row, and a single
// final newline.
func normalizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = reLineBreak.ReplaceAllString(s, "\n")
	s = strings.Map(func(r rune) rune {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = reTrailingSpace.ReplaceAllString(s+"\n", "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s + "\n"
}
