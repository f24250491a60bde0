package notify

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"jobhound/internal/config"
	"jobhound/internal/pipeline"
	"jobhound/pkg/models"
	"jobhound/pkg/utils"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Profile}} job digest - {{.Generated.Format "2006-01-02 15:04"}}</title>
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #e0e0e0; background: #1a1a1a; margin: 0; padding: 20px; }
.container { max-width: 1100px; margin: 0 auto; }
h1 { color: #00d4aa; }
.summary { background: #2a2a2a; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
.dry-run { background: #ff6b35; color: #fff; padding: 10px; border-radius: 4px; margin-bottom: 16px; }
.card { background: #2a2a2a; border-left: 4px solid #00d4aa; margin: 16px 0; padding: 16px; border-radius: 8px; }
.card.new { border-left-color: #ffd700; }
.title { color: #00d4aa; font-size: 1.3em; font-weight: bold; }
.company { color: #ffd700; }
.meta { color: #888; margin: 8px 0; }
.score { background: #00d4aa; color: #1a1a1a; padding: 2px 8px; border-radius: 4px; font-weight: bold; }
a { color: #00d4aa; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Profile}} job digest</h1>
{{if .DryRun}}<div class="dry-run">DRY RUN - preview only, nothing persisted</div>{{end}}
<div class="summary">
<p><strong>Generated:</strong> {{.Generated.Format "January 2, 2006 at 3:04 PM"}}</p>
<p><strong>Scraped:</strong> {{.TotalScraped}} &middot; <strong>Qualified:</strong> {{.Qualified}} &middot; <strong>New:</strong> {{.NewCount}}</p>
</div>
{{range .Postings}}
<div class="card{{if .IsNew}} new{{end}}">
<div class="title">{{.Title}}</div>
<div class="company">{{.Company}}</div>
<div class="meta">{{.Location}} | {{.Source}}{{if .PostedDate}} | {{.PostedDate}}{{end}} | <span class="score">{{printf "%.1f" .Score}}</span>{{if .IsNew}} | NEW{{end}}</div>
{{if .Excerpt}}<div>{{.Excerpt}}</div>{{end}}
<p><a href="{{.URL}}" target="_blank">View posting</a></p>
</div>
{{end}}
</div>
</body>
</html>
`))

type reportPosting struct {
	Title      string
	Company    string
	Location   string
	Source     string
	PostedDate string
	Score      float64
	URL        string
	Excerpt    string
	IsNew      bool
}

type reportData struct {
	Profile      string
	Generated    time.Time
	DryRun       bool
	TotalScraped int
	Qualified    int
	NewCount     int
	Postings     []reportPosting
}

// ReportWriter renders the digest to a standalone HTML file.
type ReportWriter struct {
	cfg *config.Config
}

// NewReportWriter writes into the configured report directory.
func NewReportWriter(cfg *config.Config) *ReportWriter {
	return &ReportWriter{cfg: cfg}
}

// Write renders the report and returns the file path.
func (w *ReportWriter) Write(res *pipeline.Result) (string, error) {
	data := reportData{
		Profile:      w.cfg.Profile.Name,
		Generated:    time.Now(),
		DryRun:       res.Summary.DryRun,
		TotalScraped: res.Summary.TotalScraped,
		Qualified:    res.Summary.Qualified,
		NewCount:     res.Summary.NewPostings,
	}
	for _, p := range res.Ranked {
		data.Postings = append(data.Postings, toReportPosting(p, res.NewIDs[p.ID]))
	}

	dir := utils.GetStringOrDefault(w.cfg.Notification.ReportDir, ".")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("job_report_%s.html", data.Generated.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, data); err != nil {
		return "", err
	}
	return path, nil
}

func toReportPosting(p models.Posting, isNew bool) reportPosting {
	rp := reportPosting{
		Title:    p.Title,
		Company:  p.Company,
		Location: p.Location,
		Source:   p.Source,
		Score:    p.Score,
		URL:      p.URL,
		IsNew:    isNew,
	}
	if p.PostedAt != nil {
		rp.PostedDate = p.PostedAt.Format("Jan 2, 2006")
	}
	if len(p.Description) > 200 {
		rp.Excerpt = p.Description[:200] + "..."
	} else {
		rp.Excerpt = p.Description
	}
	return rp
}
