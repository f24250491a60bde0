package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"jobhound/internal/logging"
	"jobhound/pkg/models"
)

// GreenhouseAdapter aggregates the Greenhouse-hosted boards.
type GreenhouseAdapter struct {
	fetcher Fetcher
	boards  []board
	logger  zerolog.Logger
}

// NewGreenhouseAdapter creates the adapter for the given enabled boards.
func NewGreenhouseAdapter(fetcher Fetcher, boards []board) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		fetcher: fetcher,
		boards:  boards,
		logger:  logging.Component("scraper").With().Str("source", "greenhouse").Logger(),
	}
}

func (a *GreenhouseAdapter) Name() string { return "greenhouse" }

// greenhouseResponse mirrors the Greenhouse board API top level.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"`
	UpdatedAt   string `json:"updated_at"`
	Location    *struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (a *GreenhouseAdapter) Collect(ctx context.Context) ([]models.Posting, error) {
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

func (a *GreenhouseAdapter) collectBoard(ctx context.Context, b board) ([]models.Posting, error) {
	url := fmt.Sprintf("https://api.greenhouse.io/v1/boards/%s/jobs", b.Slug)
	body, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw greenhouseResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode greenhouse payload: %w", err)
	}

	source := "greenhouse_" + b.Name
	postings := make([]models.Posting, 0, len(raw.Jobs))
	for _, item := range raw.Jobs {
		if item.Title == "" || item.AbsoluteURL == "" {
			continue
		}
		location := "Remote"
		if item.Location != nil && item.Location.Name != "" {
			location = CleanText(item.Location.Name)
		}
		postings = append(postings, models.NewPosting(models.Posting{
			Title:       CleanText(item.Title),
			Company:     strings.ToUpper(b.Name),
			Location:    location,
			URL:         item.AbsoluteURL,
			Description: item.Content,
			PostedAt:    ParseDate(item.UpdatedAt),
			Source:      source,
		}, strconv.FormatInt(item.ID, 10)))
	}
	return postings, nil
}
