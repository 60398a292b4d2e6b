package output

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeTextPDF renders extracted plain text into a minimal PDF. Sheet and
// slide markers become small headings; everything else is body text. Layout
// is intentionally simple, the Markdown file remains the primary artifact.
func writeTextPDF(text string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(line, "--- ") && strings.HasSuffix(line, " ---") {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, tr(strings.Trim(line, "- ")), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, tr(strings.ReplaceAll(line, "\t", "    ")), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
