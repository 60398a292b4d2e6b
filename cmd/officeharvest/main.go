package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/officeharvest/officeharvest/internal/app"
	"github.com/officeharvest/officeharvest/internal/cli"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputDir   string
		outputRoot string
		openDir    string
		renderPDF  bool
		configPath string
		quiet      bool
		verbose    bool
	)

	flag.StringVar(&inputDir, "input", os.Getenv("OFFICEHARVEST_INPUT"), "Directory holding the Office documents to extract (.docx, .xlsx, .xlsm, .pptx)")
	flag.StringVar(&outputRoot, "output", envOr("OFFICEHARVEST_OUTPUT", "out"), "Root directory for the run's PlainText_* and HyperLinks_* output")
	flag.StringVar(&openDir, "open.dir", "", "Open mode: deduplicate this directory's Urls_*.csv files and open the unique URLs in the default browser")
	flag.BoolVar(&renderPDF, "pdf", false, "Also render each extracted text as a PDF")
	flag.StringVar(&configPath, "config", os.Getenv("OFFICEHARVEST_CONFIG"), "Optional YAML or JSON config file; explicit flags win")
	flag.BoolVar(&quiet, "quiet", false, "Suppress the progress bar")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		InputDir:   inputDir,
		OutputRoot: outputRoot,
		RenderPDF:  renderPDF,
		OpenDir:    openDir,
		Verbose:    verbose,
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file not loaded")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg, quiet); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when there was simply nothing to do, 1 for
		// real failures.
		if errors.Is(err, app.ErrNoInputFiles) || errors.Is(err, app.ErrNoLinkFiles) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(cfg app.Config, quiet bool) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	if cfg.OpenDir != "" {
		return a.OpenURLs(ctx)
	}

	reporter := cli.NewProgressReporter(quiet)
	progress, result := a.StartRun(ctx)
	started := false
	for ev := range progress {
		if !started {
			reporter.OnBatchStart(ev.Total)
			started = true
			if ev.File == "" {
				continue
			}
		}
		reporter.OnFileDone(ev.File)
	}
	out := <-result
	if out.Err != nil {
		return out.Err
	}
	reporter.OnBatchComplete(out.Report.Succeeded, out.Report.Failed)
	return nil
}
