package app

import (
	"encoding/json"
	"os"
	"time"
)

// FileOutcome records how a single input file fared during a run.
type FileOutcome struct {
	File   string `json:"file"`
	Status string `json:"status"` // "ok" or "failed"
	Error  string `json:"error,omitempty"`
	Blocks int    `json:"blocks"`
	Links  int    `json:"links"`
}

// RunReport is the machine-readable record of one extraction run, written
// as a JSON sidecar beside the run's output directories.
type RunReport struct {
	RunID       string        `json:"run_id"`
	Stamp       string        `json:"stamp"`
	InputDir    string        `json:"input_dir"`
	TextDir     string        `json:"text_dir"`
	LinksDir    string        `json:"links_dir"`
	GeneratedAt time.Time     `json:"generated_at"`
	Files       []FileOutcome `json:"files"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
}

func (r *RunReport) addOK(file string, blocks, links int) {
	r.Files = append(r.Files, FileOutcome{File: file, Status: "ok", Blocks: blocks, Links: links})
	r.Succeeded++
}

func (r *RunReport) addFailed(file string, err error) {
	r.Files = append(r.Files, FileOutcome{File: file, Status: "failed", Error: err.Error()})
	r.Failed++
}

// writeReport encodes the report as indented JSON.
func writeReport(path string, r *RunReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
