package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"jobhound/internal/logging"
	"jobhound/pkg/models"
)

// Orchestrator runs every enabled adapter and aggregates their postings.
// One adapter failing, or panicking, never prevents the others from
// contributing results.
type Orchestrator struct {
	logger zerolog.Logger
}

// NewOrchestrator creates a scrape orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{logger: logging.Component("orchestrator")}
}

type adapterResult struct {
	index    int
	postings []models.Posting
	failure  *models.SourceFailure
}

// Run invokes all adapters concurrently. Order within an adapter is
// preserved; order across adapters is unspecified.
func (o *Orchestrator) Run(ctx context.Context, adapters []SourceAdapter) ([]models.Posting, []models.SourceFailure) {
	results := make(chan adapterResult, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter SourceAdapter) {
			defer wg.Done()
			results <- o.collect(ctx, i, adapter)
		}(i, adapter)
	}
	wg.Wait()
	close(results)

	byIndex := make([][]models.Posting, len(adapters))
	var failures []models.SourceFailure
	for res := range results {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		byIndex[res.index] = res.postings
	}

	var all []models.Posting
	for _, postings := range byIndex {
		all = append(all, postings...)
	}

	o.logger.Info().
		Int("adapters", len(adapters)).
		Int("postings", len(all)).
		Int("failures", len(failures)).
		Msg("scrape complete")

	return all, failures
}

func (o *Orchestrator) collect(ctx context.Context, index int, adapter SourceAdapter) (res adapterResult) {
	res.index = index

	defer func() {
		if r := recover(); r != nil {
			res.postings = nil
			res.failure = &models.SourceFailure{
				Source: adapter.Name(),
				Err:    fmt.Sprintf("panic: %v", r),
			}
			o.logger.Error().Str("source", adapter.Name()).Any("panic", r).Msg("adapter panicked")
		}
	}()

	postings, err := adapter.Collect(ctx)
	if err != nil {
		res.failure = &models.SourceFailure{Source: adapter.Name(), Err: err.Error()}
		o.logger.Warn().Str("source", adapter.Name()).Err(err).Msg("adapter failed")
		return res
	}

	res.postings = postings
	return res
}
