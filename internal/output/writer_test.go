package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/officeharvest/officeharvest/internal/extract"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	root := t.TempDir()
	return &Writer{
		TextDir:  filepath.Join(root, "PlainText_20240101120000"),
		LinksDir: filepath.Join(root, "HyperLinks_20240101120000"),
	}
}

func TestWriteDocument(t *testing.T) {
	w := newTestWriter(t)
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	// Second call must be a no-op for later files in the same run.
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs (repeat): %v", err)
	}

	doc := extract.Document{
		Path:   "/tmp/in/report.docx",
		Kind:   extract.KindDocx,
		Blocks: []string{"First", "Second"},
		Links: []extract.Hyperlink{
			{Text: "Example", URL: "https://example.com/"},
			{Text: "Docs", URL: "https://docs.example.com/"},
		},
	}
	written, err := w.WriteDocument(doc)
	if err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	if filepath.Base(written.TextPath) != "PlainText_report_docx.md" {
		t.Fatalf("unexpected text file name: %s", written.TextPath)
	}
	text, err := os.ReadFile(written.TextPath)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if string(text) != "First\nSecond" {
		t.Fatalf("unexpected text content: %q", text)
	}

	if filepath.Base(written.CSVPath) != "Urls_report_docx.csv" {
		t.Fatalf("unexpected csv file name: %s", written.CSVPath)
	}
	f, err := os.Open(written.CSVPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Link Text,URL,Source File,Source Ext" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Example" || rows[1][1] != "https://example.com/" ||
		rows[1][2] != "report.docx" || rows[1][3] != "docx" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestWriteDocument_NoLinksNoCSV(t *testing.T) {
	w := newTestWriter(t)
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	written, err := w.WriteDocument(extract.Document{
		Path:   "plain.pptx",
		Kind:   extract.KindPptx,
		Blocks: []string{"slide text"},
	})
	if err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	if written.CSVPath != "" {
		t.Fatalf("expected no csv for a document without links")
	}
	entries, err := os.ReadDir(w.LinksDir)
	if err != nil {
		t.Fatalf("read links dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("links dir should be empty, got %d entries", len(entries))
	}
}

func TestWriteDocument_CSVStillWrittenWhenTextFails(t *testing.T) {
	w := newTestWriter(t)
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	// Make the text directory unwritable by replacing it with a file.
	if err := os.RemoveAll(w.TextDir); err != nil {
		t.Fatalf("remove text dir: %v", err)
	}
	if err := os.WriteFile(w.TextDir, []byte("x"), 0o644); err != nil {
		t.Fatalf("block text dir: %v", err)
	}

	written, err := w.WriteDocument(extract.Document{
		Path:   "doc.docx",
		Kind:   extract.KindDocx,
		Blocks: []string{"body"},
		Links:  []extract.Hyperlink{{Text: "a", URL: "https://a.example.com/"}},
	})
	if err == nil {
		t.Fatalf("expected an error for the failed text write")
	}
	if written.CSVPath == "" {
		t.Fatalf("csv should still be written when the text write fails")
	}
	if _, statErr := os.Stat(written.CSVPath); statErr != nil {
		t.Fatalf("csv missing: %v", statErr)
	}
}

func TestWriteDocument_PDF(t *testing.T) {
	w := newTestWriter(t)
	w.RenderPDF = true
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	written, err := w.WriteDocument(extract.Document{
		Path:   "deck.pptx",
		Kind:   extract.KindPptx,
		Blocks: []string{"\n--- Slide 1 ---\n", "Hello"},
	})
	if err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	if filepath.Base(written.PDFPath) != "PlainText_deck_pptx.pdf" {
		t.Fatalf("unexpected pdf name: %s", written.PDFPath)
	}
	data, err := os.ReadFile(written.PDFPath)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("output is not a PDF")
	}
}

func TestSanitizeBaseName(t *testing.T) {
	got := SanitizeBaseName(`up/date: Q1|Q2 【final】`)
	if strings.ContainsAny(got, `/\?%*:|"<>`) || strings.ContainsAny(got, "【】") {
		t.Fatalf("illegal characters survived: %q", got)
	}
	if got != "up_date_ Q1_Q2 _final_" {
		t.Fatalf("unexpected sanitized name: %q", got)
	}
}

func TestFileNames(t *testing.T) {
	if n := TextFileName("報告書.docx"); n != "PlainText_報告書_docx.md" {
		t.Fatalf("unexpected text name: %s", n)
	}
	if n := CSVFileName("data.XLSM"); n != "Urls_data_xlsm.csv" {
		t.Fatalf("unexpected csv name: %s", n)
	}
	if n := PDFFileName("deck.pptx"); n != "PlainText_deck_pptx.pdf" {
		t.Fatalf("unexpected pdf name: %s", n)
	}
}
