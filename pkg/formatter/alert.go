package formatter

import (
	"fmt"
	"strings"

	"github.com/younsl/idlereport/internal/models"
)

// AlertSubject is the subject of every notification
const AlertSubject = "AWS Unused Resources Report"

// DefaultMaxSummaryBytes keeps the body under the 256 KB SNS message limit
const DefaultMaxSummaryBytes = 200 * 1024

// IdleDaysNote explains how EC2 Instance idle days are measured
const IdleDaysNote = "EC2 Instance unused days are counted from the stop time (launch time when the stop time is unknown)."

// Alert holds everything the notification body reports
type Alert struct {
	// StorageLocation is the s3:// URI of the stored document, empty when not stored
	StorageLocation string
	// StorageErr is set when storing the document was attempted and failed
	StorageErr error

	Summary  string
	Total    int
	Failures []models.ProbeFailure

	// IdleDaysNote adds the IdleDaysNote line after the summary
	IdleDaysNote bool
	// MaxSummaryBytes caps the summary; zero means DefaultMaxSummaryBytes
	MaxSummaryBytes int
}

// ComposeAlert builds the notification body
func ComposeAlert(a Alert) string {
	var b strings.Builder

	b.WriteString(AlertSubject)
	b.WriteString("\n\n")

	switch {
	case a.StorageLocation != "":
		fmt.Fprintf(&b, "Report Saved To S3: %s\n", a.StorageLocation)
	case a.StorageErr != nil:
		fmt.Fprintf(&b, "No S3 report generated (upload failed: %v).\n", a.StorageErr)
	default:
		b.WriteString("No S3 report generated.\n")
	}

	b.WriteString("\nSummary of Unused Resources:\n")
	b.WriteString(truncateSummary(a.Summary, a.MaxSummaryBytes))
	b.WriteString("\n")

	if a.IdleDaysNote {
		b.WriteString("\n")
		b.WriteString(IdleDaysNote)
		b.WriteString("\n")
	}

	if len(a.Failures) > 0 {
		b.WriteString("\nScan failures:\n")
		for _, f := range a.Failures {
			fmt.Fprintf(&b, "%s: %v\n", f.Kind.Label(), f.Err)
		}
	}

	fmt.Fprintf(&b, "\nTotal Unused Resources: %d\n", a.Total)

	return b.String()
}

// truncateSummary keeps whole lines up to limit bytes and counts the rest
func truncateSummary(summary string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxSummaryBytes
	}
	if len(summary) <= limit {
		return summary
	}

	lines := strings.Split(summary, "\n")
	used, kept := 0, 0
	for _, line := range lines {
		if used+len(line)+1 > limit {
			break
		}
		used += len(line) + 1
		kept++
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines[:kept], "\n"))
	if kept > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "... and %d more, see report", len(lines)-kept)
	return b.String()
}
