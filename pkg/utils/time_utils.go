package utils

import (
	"strings"
	"time"
)

// ParseStateTransitionTime extracts a time from EC2 state transition reason
// Example format: "User initiated (2023-04-01 12:34:56 GMT)"
func ParseStateTransitionTime(reason string) *time.Time {
	if len(reason) == 0 {
		return nil
	}

	// Assume "User initiated (YYYY-MM-DD HH:MM:SS GMT)" format
	parts := strings.Split(reason, "(")
	if len(parts) < 2 {
		return nil
	}

	dateStr := strings.TrimSuffix(parts[1], ")")
	dateStr = strings.TrimSpace(dateStr)

	t, err := time.Parse("2006-01-02 15:04:05 MST", dateStr)
	if err != nil {
		return nil
	}

	t = t.UTC()
	return &t
}

// CalculateElapsedDays returns the whole days elapsed between since and now.
// Both instants are normalized to UTC; a since in the future yields 0.
func CalculateElapsedDays(since, now time.Time) int {
	elapsed := now.UTC().Sub(since.UTC())
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}
