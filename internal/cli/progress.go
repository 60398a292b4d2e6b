// Package cli provides the interactive surface of the extraction run: a
// progress bar on stderr driven by the app's progress events.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter renders batch progress as a progress bar. In quiet mode
// every method is a no-op so structured logs remain the only output.
type ProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
	done  int
}

func NewProgressReporter(quiet bool) *ProgressReporter {
	return &ProgressReporter{quiet: quiet}
}

// OnBatchStart sets up the bar for a batch of totalFiles documents.
func (p *ProgressReporter) OnBatchStart(totalFiles int) {
	if p.quiet {
		return
	}
	p.done = 0
	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting documents"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

// OnFileDone advances the bar by one document.
func (p *ProgressReporter) OnFileDone(fileName string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.done++
	p.bar.Add(1)
}

// OnBatchComplete finishes the bar and prints the run outcome.
func (p *ProgressReporter) OnBatchComplete(succeeded, failed int) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Done: %d extracted, %d failed\n", succeeded, failed)
		return
	}
	fmt.Fprintf(os.Stderr, "Done: %d extracted\n", succeeded)
}
