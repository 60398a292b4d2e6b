package app

// Config holds runtime configuration for one invocation.
type Config struct {
	// Extraction
	InputDir   string
	OutputRoot string
	RenderPDF  bool

	// Batch open: when OpenDir is set the invocation deduplicates that
	// directory's Urls_*.csv files and opens the unique URLs instead of
	// extracting.
	OpenDir string

	Verbose bool
}
