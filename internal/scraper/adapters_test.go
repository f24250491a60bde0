package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned bodies by URL; unmatched URLs fail.
type fakeFetcher struct {
	responses map[string]string
	calls     []string
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	body, ok := f.responses[url]
	if !ok {
		return nil, fmt.Errorf("connection refused: %s", url)
	}
	return []byte(body), nil
}

func TestLeverAdapterCollect(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"https://api.lever.co/v0/postings/solana-foundation-8fd8?mode=json": `[
			{"id":"j1","text":"Protocol Engineer","hostedUrl":"https://jobs.lever.co/solana/j1",
			 "description":"Rust and consensus","createdAt":1704067200000,
			 "categories":{"commitment":"Full-time","location":"Remote"}},
			{"id":"j2","text":"","hostedUrl":"https://jobs.lever.co/solana/j2",
			 "categories":{}},
			{"id":"j3","text":"Dev Advocate","hostedUrl":"",
			 "categories":{}}
		]`,
	}}

	a := NewLeverAdapter(fetcher, []board{{Name: "solana", Slug: "solana-foundation-8fd8"}})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)

	// Items missing title or URL are dropped, not fatal.
	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, "Protocol Engineer", p.Title)
	assert.Equal(t, "SOLANA", p.Company)
	assert.Equal(t, "Remote", p.Location)
	assert.Equal(t, "Full-time", p.JobType)
	assert.Equal(t, "lever_solana:j1", p.ID)
	require.NotNil(t, p.PostedAt)
	assert.Equal(t, "2024-01-01", p.PostedAt.UTC().Format("2006-01-02"))
}

func TestLeverAdapterPartialBoardFailure(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"https://api.lever.co/v0/postings/avalabs?mode=json": `[
			{"id":"a1","text":"Platform Engineer","hostedUrl":"https://jobs.lever.co/avax/a1","categories":{}}
		]`,
	}}

	a := NewLeverAdapter(fetcher, []board{
		{Name: "solana", Slug: "solana-foundation-8fd8"}, // unreachable
		{Name: "avax", Slug: "avalabs"},
	})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "AVAX", postings[0].Company)
}

func TestLeverAdapterAllBoardsFailed(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{}}
	a := NewLeverAdapter(fetcher, []board{{Name: "solana", Slug: "solana-foundation-8fd8"}})

	_, err := a.Collect(context.Background())
	require.Error(t, err)

	var serr *SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "lever", serr.Source)
}

func TestLeverAdapterUnparseablePayload(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"https://api.lever.co/v0/postings/solana-foundation-8fd8?mode=json": `<html>maintenance</html>`,
	}}
	a := NewLeverAdapter(fetcher, []board{{Name: "solana", Slug: "solana-foundation-8fd8"}})

	_, err := a.Collect(context.Background())
	var serr *SourceError
	require.ErrorAs(t, err, &serr)
}

func TestGreenhouseAdapterCollect(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"https://api.greenhouse.io/v1/boards/block/jobs": `{"jobs":[
			{"id":4001,"title":"Staff Engineer","absolute_url":"https://boards.greenhouse.io/block/4001",
			 "content":"Payments infra","updated_at":"2024-02-10T08:00:00Z",
			 "location":{"name":"New York"}},
			{"id":4002,"title":"Site Reliability Engineer","absolute_url":"https://boards.greenhouse.io/block/4002",
			 "content":""}
		]}`,
	}}

	a := NewGreenhouseAdapter(fetcher, []board{{Name: "block", Slug: "block"}})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "Staff Engineer", postings[0].Title)
	assert.Equal(t, "BLOCK", postings[0].Company)
	assert.Equal(t, "New York", postings[0].Location)
	assert.Equal(t, "greenhouse_block:4001", postings[0].ID)
	require.NotNil(t, postings[0].PostedAt)

	// Missing location falls back to Remote; missing date is not an error.
	assert.Equal(t, "Remote", postings[1].Location)
	assert.Nil(t, postings[1].PostedAt)
}

func TestAshbyAdapterCollect(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"https://api.ashbyhq.com/posting-api/job-board/dragonfly": `{"jobPostings":[
			{"id":"p1","title":"Research Engineer","locationName":"Worldwide",
			 "descriptionHtml":"<p>ZK research</p>","publishedDate":"2024-03-01",
			 "employmentType":"FullTime"},
			{"id":"","title":"Broken"}
		]}`,
	}}

	a := NewAshbyAdapter(fetcher, []board{{Name: "dragonfly", Slug: "dragonfly"}})
	postings, err := a.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "Research Engineer", p.Title)
	assert.Equal(t, "DRAGONFLY", p.Company)
	assert.Equal(t, "https://jobs.ashbyhq.com/dragonfly/p1", p.URL)
	assert.Equal(t, "FullTime", p.JobType)
	assert.Equal(t, "ashby_dragonfly:p1", p.ID)
}

func TestAdapterErrorWrapsCause(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{}}
	a := NewAshbyAdapter(fetcher, []board{{Name: "pantera", Slug: "pantera-capital"}})

	_, err := a.Collect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*SourceError)))
	assert.Contains(t, err.Error(), "ashby")
}
