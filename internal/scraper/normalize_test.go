package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace runs", "  Senior\n\tEngineer   (Go) ", "Senior Engineer (Go)"},
		{"entities", "R&amp;D &lt;Platform&gt;", "R&D <Platform>"},
		{"already clean", "Backend Engineer", "Backend Engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestParseDateAbsolute(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T12:30:00", "2024-01-15"},
		{"2024-01-15T12:30:00Z", "2024-01-15"},
		{"January 15, 2024", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDate(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestParseDateRelative(t *testing.T) {
	got := ParseDate("3 days ago")
	require.NotNil(t, got)

	want := time.Now().AddDate(0, 0, -3)
	assert.WithinDuration(t, want, *got, time.Minute)
}

func TestParseDateUnknown(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("sometime soon"))
	assert.Nil(t, ParseDate("yesterday"))
}

func TestParseEpochMillis(t *testing.T) {
	assert.Nil(t, parseEpochMillis(0))
	assert.Nil(t, parseEpochMillis(-5))

	got := parseEpochMillis(1704067200000) // 2024-01-01T00:00:00Z
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-01", got.UTC().Format("2006-01-02"))
}
