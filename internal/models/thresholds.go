package models

// Thresholds holds the idle-day cutoffs used by age-based classifiers.
// Resolved once at startup and never modified during a scan.
type Thresholds struct {
	EC2UnusedDays int
	EBSUnusedDays int
}

// DefaultThresholds returns the cutoffs applied when nothing is configured
func DefaultThresholds() Thresholds {
	return Thresholds{
		EC2UnusedDays: 7,
		EBSUnusedDays: 7,
	}
}
