package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	levels := []string{"Senior", "Staff"}
	assert.True(t, ContainsFold(levels, "senior"))
	assert.True(t, ContainsFold(levels, "STAFF"))
	assert.False(t, ContainsFold(levels, "junior"))
	assert.False(t, ContainsFold(nil, "senior"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a ver...", Truncate("a very long title", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.5m", FormatDuration(150*time.Second))
}
