package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/officeharvest/officeharvest/internal/dedup"
	"github.com/officeharvest/officeharvest/internal/extract"
	"github.com/officeharvest/officeharvest/internal/opener"
	"github.com/officeharvest/officeharvest/internal/output"
)

// ErrNoInputFiles is returned when the input directory holds no supported
// Office documents.
var ErrNoInputFiles = fmt.Errorf("no supported input files")

// ErrNoLinkFiles is returned when the batch-open directory holds no
// Urls_*.csv files.
var ErrNoLinkFiles = fmt.Errorf("no hyperlink CSV files")

type App struct {
	cfg Config

	// Opener overrides the default browser launcher; tests inject fakes.
	Opener *opener.Opener
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{cfg: cfg}, nil
}

// ProgressEvent reports one step of an extraction run to the interactive
// surface. The first event carries Done=0 and the batch total.
type ProgressEvent struct {
	Done  int
	Total int
	File  string
	Err   error
}

// RunOutcome is the terminal message of one extraction run.
type RunOutcome struct {
	Report *RunReport
	Err    error
}

// StartRun launches the extraction batch on a background worker and returns
// immediately. Progress events arrive on the first channel, which is closed
// when the batch ends; the final report is delivered once on the second.
// The progress channel is buffered so an interactive surface that goes away
// mid-run abandons the worker without wedging it.
func (a *App) StartRun(ctx context.Context) (<-chan ProgressEvent, <-chan RunOutcome) {
	progress := make(chan ProgressEvent, 256)
	result := make(chan RunOutcome, 1)
	go func() {
		defer close(progress)
		report, err := a.runBatch(ctx, progress)
		result <- RunOutcome{Report: report, Err: err}
	}()
	return progress, result
}

// Run executes an extraction batch synchronously, discarding progress.
func (a *App) Run(ctx context.Context) (*RunReport, error) {
	progress, result := a.StartRun(ctx)
	for range progress {
	}
	out := <-result
	return out.Report, out.Err
}

func (a *App) runBatch(ctx context.Context, progress chan<- ProgressEvent) (*RunReport, error) {
	files, err := listInputFiles(a.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan input dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, a.cfg.InputDir)
	}

	now := time.Now()
	stamp := RunStamp(now)
	paths := NewRunPaths(a.cfg.OutputRoot, stamp)
	writer := &output.Writer{
		TextDir:   paths.TextDir,
		LinksDir:  paths.LinksDir,
		RenderPDF: a.cfg.RenderPDF,
	}
	if err := writer.EnsureDirs(); err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:       uuid.NewString(),
		Stamp:       stamp,
		InputDir:    a.cfg.InputDir,
		TextDir:     paths.TextDir,
		LinksDir:    paths.LinksDir,
		GeneratedAt: now.UTC(),
	}

	total := len(files)
	log.Info().Int("files", total).Str("input", a.cfg.InputDir).Msg("extraction run started")
	progress <- ProgressEvent{Done: 0, Total: total}

	// One file at a time; a bad document is logged and skipped so the
	// rest of the batch still completes.
	for i, path := range files {
		name := filepath.Base(path)
		doc, err := extract.FromFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("extract failed; skipping file")
			report.addFailed(name, err)
			progress <- ProgressEvent{Done: i + 1, Total: total, File: name, Err: err}
			continue
		}
		written, err := writer.WriteDocument(doc)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("write failed; skipping file")
			report.addFailed(name, err)
		} else {
			report.addOK(name, len(doc.Blocks), len(doc.Links))
			log.Debug().Str("file", name).
				Str("text", written.TextPath).
				Str("csv", written.CSVPath).
				Int("links", len(doc.Links)).
				Msg("file extracted")
		}
		progress <- ProgressEvent{Done: i + 1, Total: total, File: name, Err: err}
	}

	if err := writeReport(paths.ReportPath, report); err != nil {
		log.Warn().Err(err).Str("path", paths.ReportPath).Msg("run report not written")
	}
	log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Str("text_dir", paths.TextDir).
		Str("links_dir", paths.LinksDir).
		Msg("extraction run complete")
	return report, nil
}

// listInputFiles returns the supported Office documents directly under dir
// in lexical order.
func listInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := extract.KindForPath(e.Name()); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// OpenURLs deduplicates every Urls_*.csv under the configured directory and
// opens the unique URLs in the default browser, summary page first.
func (a *App) OpenURLs(ctx context.Context) error {
	pattern := filepath.Join(a.cfg.OpenDir, "Urls_*.csv")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("scan links dir: %w", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return fmt.Errorf("%w under %s", ErrNoLinkFiles, a.cfg.OpenDir)
	}

	res := dedup.Collect(paths)
	for _, fs := range res.Files {
		if fs.Err != nil {
			log.Warn().Err(fs.Err).Str("file", filepath.Base(fs.Path)).Msg("link file skipped")
			continue
		}
		log.Info().Str("file", filepath.Base(fs.Path)).
			Int("found", fs.Found).
			Int("new", fs.New).
			Msg("links collected")
	}
	if res.Skipped > 0 {
		log.Warn().Int("rows", res.Skipped).Msg("rows without a usable URL skipped")
	}
	if len(res.URLs) == 0 {
		log.Info().Msg("no unique URLs to open")
		return nil
	}

	urls := make([]string, len(res.URLs))
	for i, u := range res.URLs {
		urls[i] = u.URL
	}
	summary := opener.BuildSummary(urls, len(paths), time.Now())

	op := a.Opener
	if op == nil {
		op = &opener.Opener{}
	}
	dir := SummaryDir(a.cfg.OutputRoot, RunStamp(time.Now()))
	stats, err := op.OpenAll(dir, summary)
	if err != nil {
		return err
	}
	log.Info().
		Int("unique", len(urls)).
		Int("failed", stats.Failed).
		Str("summary", stats.SummaryPath).
		Msg("batch open complete")
	return nil
}
