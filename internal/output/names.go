package output

import (
	"path/filepath"
	"strings"
)

// illegalNameChars covers the usual Windows/Unix reserved characters plus
// the fullwidth brackets that show up in CJK document names.
const illegalNameChars = `/\?%*:|"<>【】`

// SanitizeBaseName replaces characters that cannot appear in output file
// names with underscores.
func SanitizeBaseName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalNameChars, r) {
			return '_'
		}
		return r
	}, name)
}

// splitName turns "report.docx" into ("report", "docx"), sanitized.
func splitName(fileName string) (base, ext string) {
	ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	base = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return SanitizeBaseName(base), ext
}

// TextFileName returns the Markdown output name for a source file,
// e.g. "report.docx" -> "PlainText_report_docx.md".
func TextFileName(fileName string) string {
	base, ext := splitName(fileName)
	return "PlainText_" + base + "_" + ext + ".md"
}

// CSVFileName returns the hyperlink CSV output name for a source file,
// e.g. "report.docx" -> "Urls_report_docx.csv".
func CSVFileName(fileName string) string {
	base, ext := splitName(fileName)
	return "Urls_" + base + "_" + ext + ".csv"
}

// PDFFileName returns the optional PDF output name for a source file.
func PDFFileName(fileName string) string {
	base, ext := splitName(fileName)
	return "PlainText_" + base + "_" + ext + ".pdf"
}
