// Package dedup collects hyperlink URLs from previously written CSV files
// and removes duplicates globally across all files, preserving first-seen
// order.
package dedup

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoURLColumn is recorded for a file whose header row has no URL column.
var ErrNoURLColumn = errors.New("csv has no URL column")

// UniqueURL is one entry of the final open list.
type UniqueURL struct {
	URL    string
	Source string // CSV file the URL was first seen in
}

// FileStat summarizes one scanned CSV file.
type FileStat struct {
	Path  string
	Found int // rows carrying a usable URL
	New   int // URLs not seen in any earlier file or row
	Err   error
}

// Result is the outcome of one collection pass.
type Result struct {
	URLs    []UniqueURL
	Files   []FileStat
	Skipped int // rows without a usable URL
}

// Collect streams rows from the given CSV files in file order, row order,
// and returns each distinct URL exactly once, in first-seen order. A single
// seen-set suppresses within-file and cross-file duplicates alike. Unreadable
// files and malformed rows are recorded, never fatal.
func Collect(paths []string) Result {
	var res Result
	seen := make(map[string]struct{})

	for _, path := range paths {
		stat := collectFile(path, seen, &res)
		res.Files = append(res.Files, stat)
	}
	return res
}

func collectFile(path string, seen map[string]struct{}, res *Result) FileStat {
	stat := FileStat{Path: path}

	f, err := os.Open(path)
	if err != nil {
		stat.Err = err
		return stat
	}
	defer f.Close()

	// The extractor writes plain UTF-8, but files that round-tripped
	// through spreadsheet tools often gain a BOM; strip it on the way in.
	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return stat
		}
		stat.Err = err
		return stat
	}
	urlCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "URL") {
			urlCol = i
			break
		}
	}
	if urlCol < 0 {
		stat.Err = ErrNoURLColumn
		return stat
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped++
				continue
			}
			stat.Err = err
			break
		}
		if urlCol >= len(rec) {
			res.Skipped++
			continue
		}
		url, ok := NormalizeURL(rec[urlCol])
		if !ok {
			res.Skipped++
			continue
		}
		stat.Found++
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		stat.New++
		res.URLs = append(res.URLs, UniqueURL{URL: url, Source: path})
	}
	return stat
}

// NormalizeURL trims a raw cell value and autocompletes a missing scheme:
// values without a recognized scheme get https:// prepended when they look
// like a host (contain a dot), while dotless values are treated as internal
// anchors and rejected.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"http://", "https://", "mailto:", "file:"} {
		if strings.HasPrefix(lower, prefix) {
			return raw, true
		}
	}
	if strings.Contains(raw, ".") {
		return "https://" + raw, true
	}
	return "", false
}
