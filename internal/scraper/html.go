package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"jobhound/internal/logging"
	"jobhound/pkg/models"
)

// maxPostingsPerPage bounds memory and runtime on listing pages.
const maxPostingsPerPage = 50

// selectorSet declares how postings are laid out on one listing page.
type selectorSet struct {
	Container string
	Title     string
	Company   string
	Location  string
	Link      string
}

// htmlSite is one structurally-scraped job board.
type htmlSite struct {
	Name      string
	URL       string
	BaseURL   string
	Selectors selectorSet
}

// HTMLAdapter extracts postings from listing pages using declarative
// selector sets.
type HTMLAdapter struct {
	fetcher Fetcher
	sites   []htmlSite
	logger  zerolog.Logger
}

// NewHTMLAdapter creates the adapter for the given enabled sites.
func NewHTMLAdapter(fetcher Fetcher, sites []htmlSite) *HTMLAdapter {
	return &HTMLAdapter{
		fetcher: fetcher,
		sites:   sites,
		logger:  logging.Component("scraper").With().Str("source", "html").Logger(),
	}
}

func (a *HTMLAdapter) Name() string { return "html" }

func (a *HTMLAdapter) Collect(ctx context.Context) ([]models.Posting, error) {
	var all []models.Posting
	failed := 0

	var lastErr error
	for _, site := range a.sites {
		postings, err := a.collectSite(ctx, site)
		if err != nil {
			failed++
			lastErr = err
			a.logger.Warn().Str("site", site.Name).Err(err).Msg("site failed")
			continue
		}
		a.logger.Info().Str("site", site.Name).Int("postings", len(postings)).Msg("site collected")
		all = append(all, postings...)
	}

	if len(a.sites) > 0 && failed == len(a.sites) {
		return nil, &SourceError{Source: a.Name(), Err: lastErr}
	}
	return all, nil
}

func (a *HTMLAdapter) collectSite(ctx context.Context, site htmlSite) ([]models.Posting, error) {
	body, err := a.fetcher.Get(ctx, site.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s markup: %w", site.Name, err)
	}

	// Listing pages rarely expose posting dates; treat entries as fresh at
	// scrape time, matching how other aggregators handle these boards.
	now := time.Now()
	source := "html_" + site.Name

	var postings []models.Posting
	doc.Find(site.Selectors.Container).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(postings) >= maxPostingsPerPage {
			return false
		}

		title := CleanText(sel.Find(site.Selectors.Title).First().Text())
		company := CleanText(sel.Find(site.Selectors.Company).First().Text())
		if title == "" || company == "" {
			return true
		}

		location := CleanText(sel.Find(site.Selectors.Location).First().Text())
		if location == "" {
			location = "Remote"
		}

		href, _ := sel.Find(site.Selectors.Link).First().Attr("href")
		url := resolveLink(site.BaseURL, href)
		if url == "" {
			return true
		}

		posted := now
		postings = append(postings, models.NewPosting(models.Posting{
			Title:    title,
			Company:  company,
			Location: location,
			URL:      url,
			PostedAt: &posted,
			Source:   source,
		}, ""))
		return true
	})

	return postings, nil
}

// resolveLink resolves a possibly-relative href against the site base URL.
func resolveLink(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimSuffix(baseURL, "/") + href
}
