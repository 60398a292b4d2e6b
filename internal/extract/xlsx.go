package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type workbookXML struct {
	Sheets []struct {
		Name  string `xml:"name,attr"`
		RelID string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

type sharedStringsXML struct {
	Items []struct {
		Plain *string  `xml:"t"`
		Runs  []string `xml:"r>t"`
	} `xml:"si"`
}

type worksheetXML struct {
	Rows []struct {
		Cells []worksheetCell `xml:"c"`
	} `xml:"sheetData>row"`
	Links []struct {
		Ref     string `xml:"ref,attr"`
		RelID   string `xml:"id,attr"`
		Display string `xml:"display,attr"`
	} `xml:"hyperlinks>hyperlink"`
}

type worksheetCell struct {
	Ref        string   `xml:"r,attr"`
	Type       string   `xml:"t,attr"`
	Value      string   `xml:"v"`
	InlinePlain []string `xml:"is>t"`
	InlineRuns  []string `xml:"is>r>t"`
}

// fromXlsx extracts cell text and hyperlinks from a workbook, sheet by sheet
// in tab order. Cell text goes through the shared-strings indirection; each
// sheet's hyperlinks resolve their r:id through the sheet's own relationship
// sidecar, with the anchor cell's value as display text.
func fromXlsx(zr *zip.Reader) (Document, error) {
	wbData, err := readPart(zr, "xl/workbook.xml")
	if err != nil {
		return Document{}, fmt.Errorf("xlsx: %w", err)
	}
	var wb workbookXML
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return Document{}, fmt.Errorf("xlsx: parse workbook: %w", err)
	}
	wbRels, err := readRelationships(zr, "xl/workbook.xml")
	if err != nil {
		return Document{}, fmt.Errorf("xlsx: %w", err)
	}
	shared, err := readSharedStrings(zr)
	if err != nil {
		return Document{}, fmt.Errorf("xlsx: %w", err)
	}

	var doc Document
	for _, sheet := range wb.Sheets {
		part := wbRels[sheet.RelID]
		if part == "" {
			continue
		}
		part = resolvePartTarget("xl/workbook.xml", part)
		doc.Blocks = append(doc.Blocks, "\n--- Sheet: "+sheet.Name+" ---\n")
		if err := extractWorksheet(zr, part, shared, &doc); err != nil {
			return Document{}, fmt.Errorf("xlsx: sheet %s: %w", sheet.Name, err)
		}
	}
	return doc, nil
}

// readSharedStrings loads xl/sharedStrings.xml. Workbooks without any string
// cells have no such part; that yields an empty table, not an error.
func readSharedStrings(zr *zip.Reader) ([]string, error) {
	data, err := readPart(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil, nil
	}
	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("parse shared strings: %w", err)
	}
	out := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		if item.Plain != nil {
			out[i] = *item.Plain
			continue
		}
		out[i] = strings.Join(item.Runs, "")
	}
	return out, nil
}

func extractWorksheet(zr *zip.Reader, part string, shared []string, doc *Document) error {
	data, err := readPart(zr, part)
	if err != nil {
		return err
	}
	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return fmt.Errorf("parse worksheet: %w", err)
	}

	byRef := make(map[string]string)
	for _, row := range ws.Rows {
		values := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			v := cellValue(c, shared)
			values = append(values, v)
			if c.Ref != "" && v != "" {
				byRef[c.Ref] = v
			}
		}
		line := strings.Join(values, "\t")
		if strings.TrimSpace(line) != "" {
			doc.Blocks = append(doc.Blocks, line)
		}
	}

	if len(ws.Links) == 0 {
		return nil
	}
	rels, err := readRelationships(zr, part)
	if err != nil {
		return err
	}
	for _, l := range ws.Links {
		// Anchors into the same workbook use a location attribute
		// instead of an r:id and are not external hyperlinks.
		if l.RelID == "" {
			continue
		}
		url := rels[l.RelID]
		text := byRef[l.Ref]
		if text == "" {
			text = strings.TrimSpace(l.Display)
		}
		if url != "" && text != "" {
			doc.Links = append(doc.Links, Hyperlink{Text: text, URL: url})
		}
	}
	return nil
}

// cellValue renders one cell the way it reads in the sheet: shared strings
// are dereferenced, inline strings joined, every other type kept verbatim
// (numbers and cached formula results live directly in the v element).
func cellValue(c worksheetCell, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		if len(c.InlinePlain) > 0 {
			return strings.Join(c.InlinePlain, "")
		}
		return strings.Join(c.InlineRuns, "")
	default:
		return c.Value
	}
}
