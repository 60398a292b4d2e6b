// Package output serializes extracted documents into one run's
// PlainText_<ts> and HyperLinks_<ts> directories.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/officeharvest/officeharvest/internal/extract"
)

// csvHeader is the fixed first row of every hyperlink CSV.
var csvHeader = []string{"Link Text", "URL", "Source File", "Source Ext"}

// Writer serializes documents for a single run. Both directories share the
// run's timestamp and are created on first use; calling EnsureDirs again in
// the same run is a no-op.
type Writer struct {
	TextDir   string
	LinksDir  string
	RenderPDF bool
}

// Written reports the output files produced for one document. A path is
// empty when the corresponding artifact was not written.
type Written struct {
	TextPath string
	CSVPath  string
	PDFPath  string
}

// EnsureDirs creates the run's output directories.
func (w *Writer) EnsureDirs() error {
	if err := os.MkdirAll(w.TextDir, 0o755); err != nil {
		return fmt.Errorf("create text dir: %w", err)
	}
	if err := os.MkdirAll(w.LinksDir, 0o755); err != nil {
		return fmt.Errorf("create links dir: %w", err)
	}
	return nil
}

// WriteDocument writes the Markdown text file and, when the document carries
// hyperlinks, the CSV file. A failure writing one artifact does not prevent
// the other; all failures are joined into the returned error.
func (w *Writer) WriteDocument(doc extract.Document) (Written, error) {
	fileName := filepath.Base(doc.Path)
	var written Written
	var errs []error

	if len(doc.Blocks) > 0 {
		text := doc.Text()
		path := filepath.Join(w.TextDir, TextFileName(fileName))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write text: %w", err))
		} else {
			written.TextPath = path
		}
		if w.RenderPDF {
			pdfPath := filepath.Join(w.TextDir, PDFFileName(fileName))
			if err := writeTextPDF(text, pdfPath); err != nil {
				errs = append(errs, fmt.Errorf("write pdf: %w", err))
			} else {
				written.PDFPath = pdfPath
			}
		}
	}

	if len(doc.Links) > 0 {
		path := filepath.Join(w.LinksDir, CSVFileName(fileName))
		if err := writeLinksCSV(path, fileName, doc.Links); err != nil {
			errs = append(errs, fmt.Errorf("write csv: %w", err))
		} else {
			written.CSVPath = path
		}
	}

	return written, errors.Join(errs...)
}

func writeLinksCSV(path, sourceFile string, links []extract.Hyperlink) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(sourceFile)), ".")
	for _, l := range links {
		if err := cw.Write([]string{l.Text, l.URL, sourceFile, ext}); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
