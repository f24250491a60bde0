package scraper

import (
	"jobhound/internal/config"
)

// Board and site rosters. Each entry is toggled by the matching
// sites.<name> config flag; absent flags mean enabled.
var (
	leverBoards = []board{
		{Name: "solana", Slug: "solana-foundation-8fd8"},
		{Name: "avax", Slug: "avalabs"},
		{Name: "bnb_chain", Slug: "bnbchain"},
	}

	greenhouseBoards = []board{
		{Name: "block", Slug: "block"},
		{Name: "a16z", Slug: "a16z"},
		{Name: "animoca", Slug: "animocabrands"},
	}

	ashbyBoards = []board{
		{Name: "dragonfly", Slug: "dragonfly"},
		{Name: "pantera", Slug: "pantera-capital"},
	}

	htmlSites = []htmlSite{
		{
			Name:    "web3_career",
			URL:     "https://web3.career/jobs",
			BaseURL: "https://web3.career",
			Selectors: selectorSet{
				Container: ".job-tile",
				Title:     ".job-tile-title",
				Company:   ".job-tile-company",
				Location:  ".job-tile-location",
				Link:      "a",
			},
		},
		{
			Name:    "crypto_careers",
			URL:     "https://cryptocareers.com/jobs",
			BaseURL: "https://cryptocareers.com",
			Selectors: selectorSet{
				Container: ".job-item",
				Title:     ".job-title",
				Company:   ".company-name",
				Location:  ".location",
				Link:      "a",
			},
		},
		{
			Name:    "cryptojobslist",
			URL:     "https://cryptojobslist.com/jobs",
			BaseURL: "https://cryptojobslist.com",
			Selectors: selectorSet{
				Container: ".job-listing",
				Title:     "h3",
				Company:   ".company",
				Location:  ".location",
				Link:      "a",
			},
		},
	}
)

// BuildAdapters assembles the enabled source adapters from configuration.
// An adapter whose boards are all disabled is omitted entirely.
func BuildAdapters(cfg *config.Config, fetcher Fetcher) []SourceAdapter {
	var adapters []SourceAdapter

	if boards := enabledBoards(cfg, leverBoards); len(boards) > 0 {
		adapters = append(adapters, NewLeverAdapter(fetcher, boards))
	}
	if boards := enabledBoards(cfg, greenhouseBoards); len(boards) > 0 {
		adapters = append(adapters, NewGreenhouseAdapter(fetcher, boards))
	}
	if boards := enabledBoards(cfg, ashbyBoards); len(boards) > 0 {
		adapters = append(adapters, NewAshbyAdapter(fetcher, boards))
	}

	var sites []htmlSite
	for _, site := range htmlSites {
		if cfg.SiteEnabled(site.Name) {
			sites = append(sites, site)
		}
	}
	if len(sites) > 0 {
		adapters = append(adapters, NewHTMLAdapter(fetcher, sites))
	}

	return adapters
}

func enabledBoards(cfg *config.Config, roster []board) []board {
	var out []board
	for _, b := range roster {
		if cfg.SiteEnabled(b.Name + "_jobs") {
			out = append(out, b)
		}
	}
	return out
}
