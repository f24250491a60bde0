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

// board names one organization's job board on a shared hosting schema.
type board struct {
	Name string // config flag prefix and source suffix
	Slug string // board identifier on the hosting provider
}

// LeverAdapter aggregates the Lever-hosted boards.
type LeverAdapter struct {
	fetcher Fetcher
	boards  []board
	logger  zerolog.Logger
}

// NewLeverAdapter creates the adapter for the given enabled boards.
func NewLeverAdapter(fetcher Fetcher, boards []board) *LeverAdapter {
	return &LeverAdapter{
		fetcher: fetcher,
		boards:  boards,
		logger:  logging.Component("scraper").With().Str("source", "lever").Logger(),
	}
}

func (a *LeverAdapter) Name() string { return "lever" }

// leverPosting mirrors one entry of the Lever postings API response.
type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	Descr      string `json:"description"`
	CreatedAt  int64  `json:"createdAt"` // epoch milliseconds
	Categories struct {
		Commitment string `json:"commitment"`
		Location   string `json:"location"`
	} `json:"categories"`
}

func (a *LeverAdapter) Collect(ctx context.Context) ([]models.Posting, error) {
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

func (a *LeverAdapter) collectBoard(ctx context.Context, b board) ([]models.Posting, error) {
	url := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", b.Slug)
	body, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw []leverPosting
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode lever payload: %w", err)
	}

	source := "lever_" + b.Name
	postings := make([]models.Posting, 0, len(raw))
	for _, item := range raw {
		if item.Text == "" || item.HostedURL == "" {
			continue
		}
		postings = append(postings, models.NewPosting(models.Posting{
			Title:       CleanText(item.Text),
			Company:     strings.ToUpper(b.Name),
			Location:    locationOrRemote(item.Categories.Location),
			URL:         item.HostedURL,
			Description: item.Descr,
			PostedAt:    parseEpochMillis(item.CreatedAt),
			JobType:     item.Categories.Commitment,
			Source:      source,
		}, item.ID))
	}
	return postings, nil
}

// locationOrRemote treats boards that omit a location as remote listings.
func locationOrRemote(location string) string {
	location = CleanText(location)
	if location == "" {
		return "Remote"
	}
	return location
}
