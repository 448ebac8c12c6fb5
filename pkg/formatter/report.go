package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/younsl/idlereport/internal/models"
)

// CSVContentType is the content type used when storing the document
const CSVContentType = "text/csv"

// NoFindingsSummary replaces the summary text when a report has no findings
const NoFindingsSummary = "No unused resources found!"

// TableHeader is the first row of every report document
var TableHeader = []string{"Resource Type", "ID", "Region/Zone", "Unused Days"}

// Rendered is a report serialized for delivery
type Rendered struct {
	// Document is the CSV encoding of the report, header row first
	Document []byte
	// Summary is one line per finding, or NoFindingsSummary
	Summary string
	// Total is the number of findings
	Total int
}

// ReportKey returns the storage key for a report generated on date
func ReportKey(date time.Time) string {
	return fmt.Sprintf("unused-resources-report-%s.csv", date.UTC().Format("2006-01-02"))
}

// Render serializes report into its CSV document and summary text
func Render(report models.Report) (Rendered, error) {
	doc, err := EncodeTable(report)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Document: doc,
		Summary:  SummaryText(report),
		Total:    report.Total(),
	}, nil
}

// TableRows returns the header row followed by one row per finding
func TableRows(report models.Report) [][]string {
	rows := make([][]string, 0, len(report.Findings)+1)
	rows = append(rows, TableHeader)
	for _, f := range report.Findings {
		rows = append(rows, []string{f.Kind.Label(), f.ID, f.Location, f.Metric})
	}
	return rows
}

// EncodeTable writes the report rows as CSV
func EncodeTable(report models.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.WriteAll(TableRows(report)); err != nil {
		return nil, fmt.Errorf("error writing report CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseTable reads a CSV document produced by EncodeTable back into findings
func ParseTable(data []byte) ([]models.Finding, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(TableHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading report CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("report CSV has no header row")
	}
	if strings.Join(records[0], ",") != strings.Join(TableHeader, ",") {
		return nil, fmt.Errorf("unexpected report CSV header: %v", records[0])
	}

	findings := make([]models.Finding, 0, len(records)-1)
	for _, rec := range records[1:] {
		kind, ok := models.KindFromLabel(rec[0])
		if !ok {
			kind = models.ResourceKind(rec[0])
		}
		findings = append(findings, models.Finding{
			Kind:     kind,
			ID:       rec[1],
			Location: rec[2],
			Metric:   rec[3],
		})
	}

	return findings, nil
}

// SummaryText returns one "<kind>: <id> (Region: <location>)" line per finding
func SummaryText(report models.Report) string {
	if len(report.Findings) == 0 {
		return NoFindingsSummary
	}

	lines := make([]string, len(report.Findings))
	for i, f := range report.Findings {
		lines[i] = fmt.Sprintf("%s: %s (Region: %s)", f.Kind.Label(), f.ID, f.Location)
	}
	return strings.Join(lines, "\n")
}
