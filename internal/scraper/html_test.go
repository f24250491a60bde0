package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = htmlSite{
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
}

func htmlPage(tiles ...string) string {
	return "<html><body>" + strings.Join(tiles, "\n") + "</body></html>"
}

func tile(title, company, location, href string) string {
	return fmt.Sprintf(`<div class="job-tile">
		<a href=%q>
			<div class="job-tile-title">%s</div>
			<div class="job-tile-company">%s</div>
			<div class="job-tile-location">%s</div>
		</a>
	</div>`, href, title, company, location)
}

func TestHTMLAdapterCollect(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		testSite.URL: htmlPage(
			tile("Solidity   Engineer", "ACME &amp; Co", "Remote", "/jobs/1"),
			tile("Frontend Dev", "Web3 Inc", "", "https://other.example/jobs/2"),
			tile("", "Nameless", "Remote", "/jobs/3"),
			tile("No Company", "", "Remote", "/jobs/4"),
		),
	}}

	a := NewHTMLAdapter(fetcher, []htmlSite{testSite})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "Solidity Engineer", first.Title)
	assert.Equal(t, "ACME & Co", first.Company)
	assert.Equal(t, "https://web3.career/jobs/1", first.URL)
	require.NotNil(t, first.PostedAt)
	assert.NotEmpty(t, first.ID)

	// Absolute links pass through; empty locations default to Remote.
	assert.Equal(t, "https://other.example/jobs/2", postings[1].URL)
	assert.Equal(t, "Remote", postings[1].Location)
}

func TestHTMLAdapterCapsPostingsPerPage(t *testing.T) {
	tiles := make([]string, 0, maxPostingsPerPage+20)
	for i := 0; i < maxPostingsPerPage+20; i++ {
		tiles = append(tiles, tile(fmt.Sprintf("Engineer %d", i), "ACME", "Remote", fmt.Sprintf("/jobs/%d", i)))
	}
	fetcher := &fakeFetcher{responses: map[string]string{testSite.URL: htmlPage(tiles...)}}

	a := NewHTMLAdapter(fetcher, []htmlSite{testSite})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, postings, maxPostingsPerPage)
}

func TestHTMLAdapterSiteIsolation(t *testing.T) {
	other := testSite
	other.Name = "crypto_careers"
	other.URL = "https://cryptocareers.com/jobs"

	fetcher := &fakeFetcher{responses: map[string]string{
		testSite.URL: htmlPage(tile("Engineer", "ACME", "Remote", "/jobs/1")),
		// other.URL unreachable
	}}

	a := NewHTMLAdapter(fetcher, []htmlSite{testSite, other})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, postings, 1)
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "https://web3.career/jobs/1", resolveLink("https://web3.career", "/jobs/1"))
	assert.Equal(t, "https://web3.career/jobs/1", resolveLink("https://web3.career/", "jobs/1"))
	assert.Equal(t, "https://x.example/j", resolveLink("https://web3.career", "https://x.example/j"))
	assert.Equal(t, "", resolveLink("https://web3.career", ""))
}
