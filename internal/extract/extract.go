package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a supported Office document format.
type Kind string

const (
	KindDocx Kind = "docx"
	KindXlsx Kind = "xlsx"
	KindXlsm Kind = "xlsm"
	KindPptx Kind = "pptx"
)

// ErrUnsupportedFormat is returned for file extensions outside the four
// supported Office formats.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Hyperlink is a (display text, target URL) pair extracted from a document.
type Hyperlink struct {
	Text string
	URL  string
}

// Document is the extracted content of one Office file: text blocks and
// hyperlinks in the document's native order.
type Document struct {
	Path   string
	Kind   Kind
	Blocks []string
	Links  []Hyperlink
}

// Text joins the document's blocks into the plain-text body written to disk.
func (d Document) Text() string {
	return strings.Join(d.Blocks, "\n")
}

// KindForPath maps a file path to its format kind. The second return is
// false when the extension is not a supported Office format.
func KindForPath(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return KindDocx, true
	case ".xlsx":
		return KindXlsx, true
	case ".xlsm":
		return KindXlsm, true
	case ".pptx":
		return KindPptx, true
	}
	return "", false
}

// FromFile opens an Office document and extracts its text blocks and
// hyperlinks. Corrupt or encrypted files surface an error so the caller can
// skip the file and keep processing the batch.
func FromFile(path string) (Document, error) {
	kind, ok := KindForPath(path)
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	// All four formats are zip archives of XML parts. Password-protected
	// files are OLE compound files instead and fail right here.
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s archive: %w", kind, err)
	}
	defer zr.Close()

	var doc Document
	switch kind {
	case KindDocx:
		doc, err = fromDocx(&zr.Reader)
	case KindXlsx, KindXlsm:
		doc, err = fromXlsx(&zr.Reader)
	case KindPptx:
		doc, err = fromPptx(&zr.Reader)
	}
	if err != nil {
		return Document{}, err
	}

	doc.Path = path
	doc.Kind = kind
	doc.Links = dedupeLinks(doc.Links)
	return doc, nil
}

// dedupeLinks drops exact duplicate (text, URL) pairs while preserving first
// occurrence order.
func dedupeLinks(links []Hyperlink) []Hyperlink {
	if len(links) < 2 {
		return links
	}
	seen := make(map[Hyperlink]struct{}, len(links))
	out := links[:0]
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
