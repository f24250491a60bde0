// Package scheduler wires up the cron job that periodically runs the
// digest pipeline in daemon mode.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"jobhound/internal/logging"
	"jobhound/internal/pipeline"
)

// Runner executes one digest run; satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// ResultFunc receives each completed run result.
type ResultFunc func(ctx context.Context, res *pipeline.Result)

// Scheduler wraps robfig/cron and manages the periodic digest loop.
// Runs never overlap; a tick that arrives while a run is in flight is
// skipped.
type Scheduler struct {
	cron     *cron.Cron
	pipeline Runner
	spec     string
	onResult ResultFunc
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler firing on the given cron spec, e.g. "@daily".
func New(p Runner, spec string, onResult ResultFunc) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		spec:     spec,
		onResult: onResult,
		logger:   logging.Component("scheduler"),
	}
}

// Start registers the job and starts the scheduler. Also runs one digest
// immediately so the store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runDigest(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron spec %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("scheduler started")

	go s.runDigest(ctx)
	return nil
}

// Stop halts the cron loop; an in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runDigest(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("previous run still in flight, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	res, err := s.pipeline.Run(ctx, pipeline.Options{})
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled run failed")
		return
	}

	if s.onResult != nil {
		s.onResult(ctx, res)
	}
}
