package scoring

import (
	"strings"

	"jobhound/internal/config"
	"jobhound/pkg/models"
	"jobhound/pkg/utils"
)

// Engine evaluates postings against the configured profile. It holds no
// mutable state; both methods are safe for concurrent use.
type Engine struct {
	cfg *config.Config
}

// NewEngine creates a scoring engine bound to the given configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// ShouldExclude reports whether a posting is filtered out before scoring.
// Each rule is independently sufficient to exclude.
func (e *Engine) ShouldExclude(p models.Posting) bool {
	haystack := strings.ToLower(p.Title + " " + p.Description)

	for _, kw := range e.cfg.Filters.ExcludeKeywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}

	for _, kw := range e.cfg.Filters.RequiredKeywords {
		if kw != "" && !strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}

	levels := e.cfg.Filters.ExperienceLevels
	if len(levels) > 0 && p.ExperienceLevel != "" && !utils.ContainsFold(levels, p.ExperienceLevel) {
		return true
	}

	return false
}

// Score computes the weighted match score for a posting, clamped to [0,100].
// Weights are percentages; sums other than 100 are accepted as-is.
func (e *Engine) Score(p models.Posting) float64 {
	s := &e.cfg.Scoring

	total := titleScore(p.Title, e.cfg.Filters.TitleKeywords)*s.TitleMatchWeight/100 +
		keywordScore(p.Description, e.cfg.Filters.PreferredKeywords)*s.KeywordMatchWeight/100 +
		e.locationScore(p.Location)*s.LocationMatchWeight/100 +
		recencyScore(p.AgeDays())*s.RecencyWeight/100

	return clamp(total, 0, 100)
}

func titleScore(title string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 50
	}
	title = strings.ToLower(title)

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords)) * 100
}

func keywordScore(description string, keywords []string) float64 {
	if description == "" {
		return 0
	}
	if len(keywords) == 0 {
		return 50
	}
	description = strings.ToLower(description)

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(description, strings.ToLower(kw)) {
			matched++
		}
	}
	return clamp(float64(matched)/float64(len(keywords))*100, 0, 100)
}

// remoteMarkers are location substrings treated as remote-friendly.
var remoteMarkers = []string{"remote", "worldwide", "anywhere", "distributed"}

func (e *Engine) locationScore(location string) float64 {
	if location == "" {
		return 50
	}
	loc := strings.ToLower(location)

	// Excluded locations veto everything else.
	for _, excluded := range e.cfg.Filters.Location.ExcludedLocations {
		if excluded != "" && strings.Contains(loc, strings.ToLower(excluded)) {
			return 0
		}
	}

	if e.cfg.Filters.Location.RemoteOnly {
		for _, marker := range remoteMarkers {
			if strings.Contains(loc, marker) {
				return 100
			}
		}
		return 10
	}

	for _, preferred := range e.cfg.Filters.Location.PreferredLocations {
		if preferred != "" && strings.Contains(loc, strings.ToLower(preferred)) {
			return 100
		}
	}
	return 50
}

func recencyScore(ageDays int) float64 {
	switch {
	case ageDays < 0:
		return 50
	case ageDays <= 1:
		return 100
	case ageDays <= 7:
		return 80
	case ageDays <= 30:
		return 60
	case ageDays <= 90:
		return 30
	default:
		return 10
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
