package utils

import "time"

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OrNoValue returns s, or "-" when s is empty
func OrNoValue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// TimePtr returns a UTC copy of t, or nil for a nil or zero time
func TimePtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
