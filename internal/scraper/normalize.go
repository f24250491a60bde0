package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	relativeDaysRe = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
)

// entityReplacer decodes the small set of HTML entities job boards commonly
// leave in plain-text fields.
var entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">")

// CleanText collapses whitespace runs to single spaces, decodes basic HTML
// entities and trims.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return entityReplacer.Replace(text)
}

// dateLayouts is the fixed ordered list of absolute formats ParseDate tries.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"02/01/2006",
}

// ParseDate attempts the absolute layouts in order, then the relative
// "N days ago" form. An unrecognized date is not an error: callers treat a
// nil result as an unknown date, which scores neutrally.
func ParseDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t
		}
	}

	lower := strings.ToLower(dateStr)
	if strings.Contains(lower, "day") {
		if m := relativeDaysRe.FindStringSubmatch(lower); m != nil {
			days, err := strconv.Atoi(m[1])
			if err == nil {
				t := time.Now().AddDate(0, 0, -days)
				return &t
			}
		}
	}

	return nil
}

// parseEpochMillis converts an epoch-milliseconds value (Lever's createdAt)
// into a time, ignoring non-positive values.
func parseEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms)
	return &t
}
