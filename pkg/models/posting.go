package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Posting represents one normalized job listing produced by a source adapter.
type Posting struct {
	ID              string     `json:"id"`
	Title           string     `json:"title" validate:"required"`
	Company         string     `json:"company" validate:"required"`
	Location        string     `json:"location"`
	URL             string     `json:"url" validate:"required"`
	Description     string     `json:"description"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	JobType         string     `json:"job_type,omitempty"`
	SalaryRange     string     `json:"salary_range,omitempty"`
	Source          string     `json:"source"`
	Score           float64    `json:"score"`
}

// NewPosting builds a posting and assigns its stable identity. When the
// source supplies a native identifier the identity is "source:nativeID";
// otherwise it is a fingerprint of title, company and URL so the same
// logical posting maps to the same identity on every run.
func NewPosting(p Posting, nativeID string) Posting {
	if nativeID != "" {
		p.ID = p.Source + ":" + nativeID
	} else {
		p.ID = Fingerprint(p.Title, p.Company, p.URL)
	}
	return p
}

// Fingerprint returns a deterministic hex identity for the given fields.
func Fingerprint(title, company, url string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0x1f})
	h.Write([]byte(company))
	h.Write([]byte{0x1f})
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// AgeDays returns the whole days since the posting date, or -1 when the
// posting date is unknown.
func (p *Posting) AgeDays() int {
	if p.PostedAt == nil {
		return -1
	}
	return int(time.Since(*p.PostedAt).Hours() / 24)
}

// SeenRecord is the persisted fact about a previously observed posting.
type SeenRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Score     float64   `json:"score"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	IsNew     bool      `json:"is_new"`
}

// SourceFailure records a whole-source error without aborting the run.
type SourceFailure struct {
	Source string `json:"source"`
	Err    string `json:"error"`
}

// RunSummary is returned to the caller after every pipeline run.
type RunSummary struct {
	RunID        string          `json:"run_id"`
	TotalScraped int             `json:"total_scraped"`
	Qualified    int             `json:"qualified"`
	NewPostings  int             `json:"new_postings"`
	Elapsed      time.Duration   `json:"elapsed"`
	DryRun       bool            `json:"dry_run"`
	StartedAt    time.Time       `json:"started_at"`
	Failures     []SourceFailure `json:"failures,omitempty"`
}
