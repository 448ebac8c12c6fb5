package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateElapsedDays(t *testing.T) {
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		since time.Time
		want  int
	}{
		{"same instant", now, 0},
		{"just under one day", now.Add(-23 * time.Hour), 0},
		{"exactly one day", now.Add(-24 * time.Hour), 1},
		{"ten and a half days", now.Add(-252 * time.Hour), 10},
		{"future timestamp", now.Add(time.Hour), 0},
		{"non-UTC zone", now.Add(-48 * time.Hour).In(time.FixedZone("KST", 9*3600)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateElapsedDays(tt.since, now))
		})
	}
}

func TestParseStateTransitionTime(t *testing.T) {
	got := ParseStateTransitionTime("User initiated (2025-04-01 12:34:56 GMT)")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 4, 1, 12, 34, 56, 0, time.UTC), *got)

	assert.Nil(t, ParseStateTransitionTime(""))
	assert.Nil(t, ParseStateTransitionTime("User initiated"))
	assert.Nil(t, ParseStateTransitionTime("Server.ScheduledStop (not a date)"))
}

func TestIsValidRegion(t *testing.T) {
	assert.True(t, IsValidRegion("us-east-1"))
	assert.True(t, IsValidRegion("ap-southeast-5"))
	assert.True(t, IsValidRegion("us-gov-west-1"))
	assert.False(t, IsValidRegion(""))
	assert.False(t, IsValidRegion("useast1"))
}

func TestOrNoValue(t *testing.T) {
	assert.Equal(t, "-", OrNoValue(""))
	assert.Equal(t, "us-east-1a", OrNoValue("us-east-1a"))
}
