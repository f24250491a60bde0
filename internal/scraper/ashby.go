package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"jobhound/internal/logging"
	"jobhound/pkg/models"
)

// AshbyAdapter aggregates the Ashby-hosted boards.
type AshbyAdapter struct {
	fetcher Fetcher
	boards  []board
	logger  zerolog.Logger
}

// NewAshbyAdapter creates the adapter for the given enabled boards.
func NewAshbyAdapter(fetcher Fetcher, boards []board) *AshbyAdapter {
	return &AshbyAdapter{
		fetcher: fetcher,
		boards:  boards,
		logger:  logging.Component("scraper").With().Str("source", "ashby").Logger(),
	}
}

func (a *AshbyAdapter) Name() string { return "ashby" }

// ashbyResponse mirrors the Ashby job board API top level.
type ashbyResponse struct {
	JobPostings []ashbyPosting `json:"jobPostings"`
}

type ashbyPosting struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	LocationName    string `json:"locationName"`
	DescriptionHTML string `json:"descriptionHtml"`
	PublishedDate   string `json:"publishedDate"`
	EmploymentType  string `json:"employmentType"`
}

func (a *AshbyAdapter) Collect(ctx context.Context) ([]models.Posting, error) {
	var all []models.Posting
	failed := 0

	var lastErr error
	for _, b := range a.boards {
		postings, err := a.collectBoard(ctx, b)
		if err != nil {
			failed++
			lastErr = err
			a.logger.Warn().Str("board", b.Name).Err(err).Msg("board failed")
			continue
		}
		a.logger.Info().Str("board", b.Name).Int("postings", len(postings)).Msg("board collected")
		all = append(all, postings...)
	}

	if len(a.boards) > 0 && failed == len(a.boards) {
		return nil, &SourceError{Source: a.Name(), Err: lastErr}
	}
	return all, nil
}

func (a *AshbyAdapter) collectBoard(ctx context.Context, b board) ([]models.Posting, error) {
	url := fmt.Sprintf("https://api.ashbyhq.com/posting-api/job-board/%s", b.Slug)
	body, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw ashbyResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode ashby payload: %w", err)
	}

	source := "ashby_" + b.Name
	postings := make([]models.Posting, 0, len(raw.JobPostings))
	for _, item := range raw.JobPostings {
		if item.Title == "" || item.ID == "" {
			continue
		}
		postings = append(postings, models.NewPosting(models.Posting{
			Title:       CleanText(item.Title),
			Company:     strings.ToUpper(b.Name),
			Location:    locationOrRemote(item.LocationName),
			URL:         fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", b.Slug, item.ID),
			Description: item.DescriptionHTML,
			PostedAt:    ParseDate(item.PublishedDate),
			JobType:     item.EmploymentType,
			Source:      source,
		}, item.ID))
	}
	return postings, nil
}
