package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"jobhound/internal/config"
	"jobhound/internal/logging"
	"jobhound/internal/scoring"
	"jobhound/internal/scraper"
	"jobhound/internal/store"
	"jobhound/pkg/models"
	"jobhound/pkg/utils"
)

// Options controls one pipeline run.
type Options struct {
	// DryRun computes and ranks results without touching the store.
	DryRun bool
}

// Result carries everything a renderer needs after one run.
type Result struct {
	Summary models.RunSummary
	// Ranked holds the qualified postings sorted by score descending,
	// truncated to the configured result cap.
	Ranked []models.Posting
	// NewIDs marks which ranked identities were first observed this run.
	NewIDs map[string]bool
}

// Pipeline wires scraping, scoring and dedup into one digest run.
type Pipeline struct {
	cfg          *config.Config
	orchestrator *scraper.Orchestrator
	adapters     []scraper.SourceAdapter
	engine       *scoring.Engine
	store        *store.Store
	logger       zerolog.Logger
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.Config, adapters []scraper.SourceAdapter, st *store.Store) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		orchestrator: scraper.NewOrchestrator(),
		adapters:     adapters,
		engine:       scoring.NewEngine(cfg),
		store:        st,
		logger:       logging.Component("pipeline"),
	}
}

// Run executes one full digest: scrape, filter, score, dedup, persist.
// In dry-run mode the store is never written; scoring output is identical.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	runID := utils.GenerateRunID()

	p.logger.Info().
		Str("run_id", runID).
		Str("profile", p.cfg.Profile.Name).
		Bool("dry_run", opts.DryRun).
		Int("adapters", len(p.adapters)).
		Msg("run started")

	postings, failures := p.orchestrator.Run(ctx, p.adapters)

	var qualified []models.Posting
	newIDs := make(map[string]bool)

	for _, posting := range postings {
		if p.engine.ShouldExclude(posting) {
			continue
		}

		posting.Score = p.engine.Score(posting)
		if posting.Score < p.cfg.Scoring.MinScore {
			continue
		}

		isNew, err := p.store.IsNew(ctx, posting.ID)
		if err != nil {
			return nil, fmt.Errorf("dedup lookup for %s: %w", posting.ID, err)
		}
		if isNew {
			newIDs[posting.ID] = true
		}

		if !opts.DryRun {
			if err := p.store.RecordObservation(ctx, posting, isNew); err != nil {
				return nil, fmt.Errorf("record observation for %s: %w", posting.ID, err)
			}
		}

		qualified = append(qualified, posting)
	}

	if !opts.DryRun {
		if err := p.store.MarkAllSeen(ctx); err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
	}

	// Stable sort keeps discovery order for equal scores.
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Score > qualified[j].Score
	})
	ranked := qualified
	if len(ranked) > p.cfg.Scoring.MaxResults {
		ranked = ranked[:p.cfg.Scoring.MaxResults]
	}

	summary := models.RunSummary{
		RunID:        runID,
		TotalScraped: len(postings),
		Qualified:    len(qualified),
		NewPostings:  len(newIDs),
		Elapsed:      time.Since(started),
		DryRun:       opts.DryRun,
		StartedAt:    started,
		Failures:     failures,
	}

	p.logger.Info().
		Str("run_id", runID).
		Int("scraped", summary.TotalScraped).
		Int("qualified", summary.Qualified).
		Int("new", summary.NewPostings).
		Dur("elapsed", summary.Elapsed).
		Msg("run complete")

	return &Result{Summary: summary, Ranked: ranked, NewIDs: newIDs}, nil
}
