// Package scraper turns heterogeneous job board payloads into normalized
// postings. Two adapter variants exist: board-API adapters parsing a known
// JSON schema, and HTML adapters extracting listings with a declarative
// selector set.
package scraper

import (
	"context"
	"fmt"

	"jobhound/pkg/models"
)

// SourceAdapter defines the interface for all posting sources.
type SourceAdapter interface {
	// Name identifies the source in logs, failures and posting identities.
	Name() string

	// Collect fetches and normalizes every posting the source currently
	// lists. Malformed individual items are dropped silently; Collect
	// returns a *SourceError only when the whole source is unreachable.
	Collect(ctx context.Context) ([]models.Posting, error)
}

// Fetcher is the rate-limited HTTP client adapters fetch through.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// SourceError reports that an entire source failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
