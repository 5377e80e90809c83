package fileconverter

import (
	"path/filepath"
	"strings"
)

// ResolveOutputPath returns outputDir/<input base name>.<format>. Only the last extension of
// the input is dropped, so "report.v2.docx" keeps "report.v2". Inputs sharing a base name
// resolve to the same path.
func ResolveOutputPath(inputPath, outputFormat, outputDir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, fileExt(base))
	return filepath.Join(outputDir, base+"."+NormalizeFormat(outputFormat))
}

// inputExtension returns the lower-cased extension of path without the dot.
func inputExtension(path string) string {
	return NormalizeFormat(fileExt(filepath.Base(path)))
}

// fileExt is filepath.Ext except that a leading dot does not start an
// extension: ".png" and "..png" have none, ".config.png" has ".png".
func fileExt(base string) string {
	ext := filepath.Ext(base)
	if strings.TrimLeft(base, ".") == strings.TrimLeft(ext, ".") {
		return ""
	}
	return ext
}
