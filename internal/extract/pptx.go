package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// fromPptx extracts run text and hyperlinks slide by slide in slide order.
// Presentation hyperlinks hang off a run's properties as a:hlinkClick with
// an r:id resolved through the slide's relationship sidecar; the run's own
// text is the display text.
func fromPptx(zr *zip.Reader) (Document, error) {
	slides := slideParts(zr)
	if len(slides) == 0 {
		return Document{}, fmt.Errorf("pptx: no slides found")
	}

	var doc Document
	for i, part := range slides {
		doc.Blocks = append(doc.Blocks, "\n--- Slide "+strconv.Itoa(i+1)+" ---\n")
		if err := extractSlide(zr, part, &doc); err != nil {
			return Document{}, fmt.Errorf("pptx: %w", err)
		}
	}
	return doc, nil
}

// slideParts lists the slide XML parts in numeric order. The archive's file
// order is not meaningful, so the slide number is taken from the part name.
func slideParts(zr *zip.Reader) []string {
	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for _, f := range zr.File {
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{n: n, name: f.Name})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	parts := make([]string, len(found))
	for i, s := range found {
		parts[i] = s.name
	}
	return parts
}

func extractSlide(zr *zip.Reader, part string, doc *Document) error {
	data, err := readPart(zr, part)
	if err != nil {
		return err
	}
	rels, err := readRelationships(zr, part)
	if err != nil {
		return err
	}

	var (
		para    strings.Builder
		runText strings.Builder
		inText  bool
		inRun   bool
		linkID  string
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "r":
				inRun = true
				runText.Reset()
				linkID = ""
			case "hlinkClick":
				if inRun {
					linkID = attrValue(t, "id")
				}
			case "t":
				inText = true
			case "br":
				para.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				para.Write(t)
				if inRun {
					runText.Write(t)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if s := para.String(); strings.TrimSpace(s) != "" {
					doc.Blocks = append(doc.Blocks, s)
				}
				para.Reset()
			case "r":
				inRun = false
				if linkID != "" {
					url := rels[linkID]
					text := strings.TrimSpace(runText.String())
					if url != "" && text != "" {
						doc.Links = append(doc.Links, Hyperlink{Text: text, URL: url})
					}
				}
				linkID = ""
			case "t":
				inText = false
			}
		}
	}
	return nil
}
