package models

import "time"

// Finding is one resource accepted as unused
type Finding struct {
	Kind     ResourceKind
	ID       string
	Location string
	Metric   string
}

// Report is the ordered result of one scan invocation
type Report struct {
	GeneratedAt time.Time
	Findings    []Finding
}

// Total returns the number of findings in the report
func (r Report) Total() int {
	return len(r.Findings)
}

// ProbeFailure records a kind whose probe could not enumerate resources
type ProbeFailure struct {
	Kind ResourceKind
	Err  error
}

// KindStats describes how one kind fared during a scan
type KindStats struct {
	Kind     ResourceKind
	Scanned  int // descriptors returned by the probe
	Found    int // findings accepted by the classifier
	Duration time.Duration
	Err      error
}
