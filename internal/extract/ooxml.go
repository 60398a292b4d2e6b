package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
)

// readPart returns the decompressed contents of a single archive member, or
// an error when the part is absent.
func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("part %s not found", name)
}

// relationships maps relationship IDs (rId1, rId2, ...) to their targets.
// Hyperlink targets are full URLs; part targets are archive paths relative
// to the owning part's directory.
type relationships map[string]string

type relsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readRelationships parses the _rels sidecar of the given part. A missing
// sidecar is not an error: it simply means the part has no relationships, so
// an empty map is returned.
func readRelationships(zr *zip.Reader, partName string) (relationships, error) {
	data, err := readPart(zr, relsPathFor(partName))
	if err != nil {
		return relationships{}, nil
	}
	var parsed relsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse relationships of %s: %w", partName, err)
	}
	rels := make(relationships, len(parsed.Rels))
	for _, r := range parsed.Rels {
		rels[r.ID] = r.Target
	}
	return rels, nil
}

// relsPathFor returns the _rels sidecar path for a part, e.g.
// word/document.xml -> word/_rels/document.xml.rels.
func relsPathFor(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// resolvePartTarget resolves a relationship target against the directory the
// owning part lives in. Absolute targets are taken from the archive root.
func resolvePartTarget(ownerPart, target string) string {
	if path.IsAbs(target) {
		return path.Clean(target[1:])
	}
	return path.Clean(path.Join(path.Dir(ownerPart), target))
}

// attrValue returns the value of the attribute with the given local name,
// ignoring its namespace prefix.
func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
