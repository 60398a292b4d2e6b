package app

import (
	"path/filepath"
	"time"
)

// stampLayout yields the 14-digit run timestamp shared by every artifact of
// one run.
const stampLayout = "20060102150405"

// RunStamp formats the run timestamp. Derived once per run so all files of
// the run land in the same pair of directories.
func RunStamp(now time.Time) string {
	return now.Format(stampLayout)
}

// RunPaths are the per-run output locations under the output root.
type RunPaths struct {
	TextDir    string
	LinksDir   string
	ReportPath string
}

// NewRunPaths derives the run's directory and report paths from the output
// root and the run timestamp.
func NewRunPaths(outputRoot, stamp string) RunPaths {
	return RunPaths{
		TextDir:    filepath.Join(outputRoot, "PlainText_"+stamp),
		LinksDir:   filepath.Join(outputRoot, "HyperLinks_"+stamp),
		ReportPath: filepath.Join(outputRoot, "report_"+stamp+".json"),
	}
}

// SummaryDir returns the batch-open page directory for one invocation.
func SummaryDir(outputRoot, stamp string) string {
	return filepath.Join(outputRoot, "temp_html_"+stamp)
}
