// Package opener generates the batch-open summary page and launches every
// unique URL in the system's default browser.
package opener

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

// Summary describes one batch-open invocation for the generated page.
type Summary struct {
	GeneratedAt time.Time
	SourceCount int
	URLs        []string
	Domains     []DomainGroup
}

// DomainGroup counts unique URLs per registered domain.
type DomainGroup struct {
	Domain string
	Count  int
}

// Stats reports how the launch phase went. Failures are best-effort
// casualties, the remaining URLs were still attempted.
type Stats struct {
	SummaryPath string
	Attempted   int
	Failed      int
}

// Opener launches the summary page and the unique URLs. The zero value uses
// the OS default browser; tests inject their own launch functions.
type Opener struct {
	OpenFile func(path string) error
	OpenURL  func(url string) error
}

func (o *Opener) openFile(path string) error {
	if o.OpenFile != nil {
		return o.OpenFile(path)
	}
	return browser.OpenFile(path)
}

func (o *Opener) openURL(u string) error {
	if o.OpenURL != nil {
		return o.OpenURL(u)
	}
	return browser.OpenURL(u)
}

// OpenAll writes the summary page into dir, opens it first, then opens each
// URL in first-seen order. A failed launch is logged and counted; it never
// stops the remaining URLs.
func (o *Opener) OpenAll(dir string, s Summary) (Stats, error) {
	var stats Stats

	path, err := WriteSummaryPage(dir, s)
	if err != nil {
		return stats, err
	}
	stats.SummaryPath = path

	if err := o.openFile(path); err != nil {
		log.Warn().Err(err).Str("page", path).Msg("summary page launch failed")
		stats.Failed++
	}
	for _, u := range s.URLs {
		stats.Attempted++
		if err := o.openURL(u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("browser launch failed; continuing")
			stats.Failed++
		}
	}
	return stats, nil
}

// BuildSummary groups the unique URLs by registered domain for the page.
func BuildSummary(urls []string, sourceCount int, now time.Time) Summary {
	counts := make(map[string]int)
	for _, u := range urls {
		counts[registeredDomain(u)]++
	}
	groups := make([]DomainGroup, 0, len(counts))
	for d, n := range counts {
		groups = append(groups, DomainGroup{Domain: d, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Domain < groups[j].Domain
	})
	return Summary{
		GeneratedAt: now,
		SourceCount: sourceCount,
		URLs:        urls,
		Domains:     groups,
	}
}

// registeredDomain reduces a URL to its eTLD+1, falling back to the raw host
// for IPs and single-label hosts, and to "other" for unparsable values.
func registeredDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "other"
	}
	host := strings.ToLower(u.Hostname())
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

var summaryTmpl = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Hyperlink batch open</title>
<style>
body { font-family: sans-serif; margin: 40px; background-color: #f4f4f9; }
.container { background-color: #ffffff; padding: 30px; border-radius: 8px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
.count { color: #27ae60; font-weight: bold; }
li { margin: 4px 0; }
</style>
</head>
<body>
<div class="container">
<h1>Hyperlink batch open</h1>
<p>Source CSV files scanned: <span class="count" id="source-count">{{.SourceCount}}</span></p>
<p>Unique URLs after global deduplication: <span class="count" id="url-count">{{len .URLs}}</span></p>
<p>Generated: {{.GeneratedAt.UTC.Format "2006-01-02T15:04:05Z07:00"}}</p>
<h2>Domains</h2>
<ul id="domains">
{{range .Domains}}<li>{{.Domain}} ({{.Count}})</li>
{{end}}</ul>
<h2>URLs in open order</h2>
<ol id="urls">
{{range .URLs}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ol>
</div>
</body>
</html>
`))

// WriteSummaryPage renders the summary into dir/url_summary.html, creating
// dir when needed, and returns the page path.
func WriteSummaryPage(dir string, s Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create summary dir: %w", err)
	}
	path := filepath.Join(dir, "url_summary.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create summary page: %w", err)
	}
	if err := summaryTmpl.Execute(f, s); err != nil {
		f.Close()
		return "", fmt.Errorf("render summary page: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
