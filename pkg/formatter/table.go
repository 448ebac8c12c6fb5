package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/idlereport/internal/models"
)

// KindInfo is one line of the --list-kinds output
type KindInfo struct {
	Kind        models.ResourceKind
	Description string
	Default     bool
}

// PrintFindingsTable prints the report findings in registration order
func PrintFindingsTable(w io.Writer, report models.Report, scanDuration time.Duration) {
	printTimestamp(w, report.GeneratedAt, scanDuration)

	if len(report.Findings) == 0 {
		fmt.Fprintln(w, NoFindingsSummary)
		return
	}

	// kubectl style tabwriter
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "RESOURCE TYPE\tID\tREGION/ZONE\tUNUSED DAYS")
	for _, f := range report.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Kind.Label(), f.ID, f.Location, f.Metric)
	}
	fmt.Fprintf(tw, "Total:\t%s\t\t\n", humanize.Comma(int64(report.Total())))

	tw.Flush()
}

// PrintKindStats prints how each kind fared during the scan
func PrintKindStats(w io.Writer, stats []models.KindStats) {
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## Scan Summary")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSCANNED\tUNUSED\tDURATION\tSTATUS")

	for _, s := range stats {
		status := "OK"
		if s.Err != nil {
			status = fmt.Sprintf("FAILED: %v", s.Err)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2fs\t%s\n",
			s.Kind,
			humanize.Comma(int64(s.Scanned)),
			humanize.Comma(int64(s.Found)),
			s.Duration.Seconds(),
			status,
		)
	}

	tw.Flush()
}

// PrintKinds prints the available kinds with their descriptions
func PrintKinds(w io.Writer, kinds []KindInfo) {
	width := 0
	for _, k := range kinds {
		width = max(width, StringWidth(string(k.Kind)))
	}

	fmt.Fprintln(w, "Available resource kinds:")
	for _, k := range kinds {
		line := fmt.Sprintf("  %s - %s", PadString(string(k.Kind), width), k.Description)
		if k.Default {
			line += " (default)"
		}
		fmt.Fprintln(w, line)
	}
}
