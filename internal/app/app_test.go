package app

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/officeharvest/officeharvest/internal/opener"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p><w:r><w:t>Hello world.</w:t></w:r></w:p>
    <w:p><w:hyperlink r:id="rId1"><w:r><w:t>Example</w:t></w:r></w:hyperlink></w:p>
  </w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/>
</Relationships>`

func writeDocx(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"word/document.xml":            testDocumentXML,
		"word/_rels/document.xml.rels": testRelsXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestRun_EndToEnd(t *testing.T) {
	input := t.TempDir()
	out := t.TempDir()
	writeDocx(t, filepath.Join(input, "good.docx"))
	require.NoError(t, os.WriteFile(filepath.Join(input, "broken.docx"), []byte("not a zip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(input, "notes.txt"), []byte("ignored"), 0o644))

	a, err := New(Config{InputDir: input, OutputRoot: out})
	require.NoError(t, err)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	require.NotEmpty(t, report.RunID)
	require.Regexp(t, regexp.MustCompile(`PlainText_\d{14}$`), report.TextDir)
	require.Regexp(t, regexp.MustCompile(`HyperLinks_\d{14}$`), report.LinksDir)

	text, err := os.ReadFile(filepath.Join(report.TextDir, "PlainText_good_docx.md"))
	require.NoError(t, err)
	require.Contains(t, string(text), "Hello world.")

	csv, err := os.ReadFile(filepath.Join(report.LinksDir, "Urls_good_docx.csv"))
	require.NoError(t, err)
	require.Contains(t, string(csv), "Link Text,URL,Source File,Source Ext")
	require.Contains(t, string(csv), "https://example.com/")

	// The skipped file must still appear in the run report.
	_, err = os.Stat(filepath.Join(out, "report_"+report.Stamp+".json"))
	require.NoError(t, err)
	var failed []string
	for _, fo := range report.Files {
		if fo.Status == "failed" {
			failed = append(failed, fo.File)
		}
	}
	require.Equal(t, []string{"broken.docx"}, failed)
}

func TestStartRun_ProgressEvents(t *testing.T) {
	input := t.TempDir()
	writeDocx(t, filepath.Join(input, "a.docx"))
	writeDocx(t, filepath.Join(input, "b.docx"))

	a, err := New(Config{InputDir: input, OutputRoot: t.TempDir()})
	require.NoError(t, err)

	progress, result := a.StartRun(context.Background())
	var events []ProgressEvent
	for ev := range progress {
		events = append(events, ev)
	}
	out := <-result
	require.NoError(t, out.Err)

	require.Len(t, events, 3)
	require.Equal(t, ProgressEvent{Done: 0, Total: 2}, events[0])
	require.Equal(t, 2, events[2].Done)
	require.Equal(t, "b.docx", events[2].File)
}

func TestRun_NoInputFiles(t *testing.T) {
	a, err := New(Config{InputDir: t.TempDir(), OutputRoot: t.TempDir()})
	require.NoError(t, err)
	_, err = a.Run(context.Background())
	require.ErrorIs(t, err, ErrNoInputFiles)
}

func TestOpenURLs(t *testing.T) {
	links := t.TempDir()
	out := t.TempDir()
	csvA := "Link Text,URL,Source File,Source Ext\n" +
		"Example,https://example.com/,a.docx,docx\n" +
		"Docs,https://docs.example.com/,a.docx,docx\n"
	csvB := "Link Text,URL,Source File,Source Ext\n" +
		"Again,https://example.com/,b.xlsx,xlsx\n"
	require.NoError(t, os.WriteFile(filepath.Join(links, "Urls_a_docx.csv"), []byte(csvA), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(links, "Urls_b_xlsx.csv"), []byte(csvB), 0o644))

	a, err := New(Config{OpenDir: links, OutputRoot: out})
	require.NoError(t, err)

	var launched []string
	a.Opener = &opener.Opener{
		OpenFile: func(path string) error {
			launched = append(launched, "page:"+filepath.Base(path))
			return nil
		},
		OpenURL: func(u string) error {
			launched = append(launched, u)
			return nil
		},
	}
	require.NoError(t, a.OpenURLs(context.Background()))

	// Summary page first, then unique URLs in first-seen order.
	require.Equal(t, []string{
		"page:url_summary.html",
		"https://example.com/",
		"https://docs.example.com/",
	}, launched)

	dirs, err := filepath.Glob(filepath.Join(out, "temp_html_*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)
}

func TestOpenURLs_NoLinkFiles(t *testing.T) {
	a, err := New(Config{OpenDir: t.TempDir(), OutputRoot: t.TempDir()})
	require.NoError(t, err)
	err = a.OpenURLs(context.Background())
	require.ErrorIs(t, err, ErrNoLinkFiles)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{OutputRoot: "out"})
	require.Error(t, err)
}
