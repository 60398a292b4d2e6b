package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// fromDocx extracts paragraph text and hyperlinks from word/document.xml.
// Table cells are plain paragraphs inside w:tbl elements, so one walk over
// the part yields body and table text in native order. Hyperlinks appear as
// w:hyperlink elements carrying an r:id resolved through the document's
// relationship sidecar; internal bookmark links have no r:id and are skipped.
func fromDocx(zr *zip.Reader) (Document, error) {
	data, err := readPart(zr, "word/document.xml")
	if err != nil {
		return Document{}, fmt.Errorf("docx: %w", err)
	}
	rels, err := readRelationships(zr, "word/document.xml")
	if err != nil {
		return Document{}, fmt.Errorf("docx: %w", err)
	}

	var (
		doc      Document
		para     strings.Builder
		linkText strings.Builder
		inPara   bool
		inText   bool
		inLink   bool
		linkID   string
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Document{}, fmt.Errorf("docx: parse document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				para.Reset()
			case "hyperlink":
				inLink = true
				linkID = attrValue(t, "id")
				linkText.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					para.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText && inPara {
				para.Write(t)
				if inLink {
					linkText.Write(t)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				inPara = false
				doc.Blocks = append(doc.Blocks, para.String())
			case "hyperlink":
				inLink = false
				url := rels[linkID]
				text := strings.TrimSpace(linkText.String())
				if url != "" && text != "" {
					doc.Links = append(doc.Links, Hyperlink{Text: text, URL: url})
				}
			case "t":
				inText = false
			}
		}
	}
	return doc, nil
}
