package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/studysync/coursesync/internal/offering"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// CourseSummary is the short form of a record printed by the list command
type CourseSummary struct {
	Section     string `json:"section"`
	ClassNumber string `json:"class_number"`
	CourseTitle string `json:"course_title"`
	Days        string `json:"days"`
	Times       string `json:"times"`
}

func summarize(records []offering.Record) []CourseSummary {
	courses := make([]CourseSummary, len(records))
	for i, rec := range records {
		courses[i] = CourseSummary{
			Section:     rec.Section,
			ClassNumber: rec.ClassNumber,
			CourseTitle: rec.CourseTitle,
			Days:        rec.Days,
			Times:       rec.Times,
		}
	}
	return courses
}

// WriteSummary writes the outcome of a sync run
func WriteSummary(w io.Writer, summary *RunSummary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeSummaryText(w, summary)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRecords writes full records, one table row or JSON object per class
func WriteRecords(w io.Writer, records []offering.Record, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatText:
		return writeRecordsText(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteCourseList writes the short course listing
func WriteCourseList(w io.Writer, records []offering.Record, format OutputFormat) error {
	courses := summarize(records)
	switch format {
	case FormatJSON:
		return writeJSON(w, courses)
	case FormatText:
		return writeCourseListText(w, courses)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func writeSummaryText(w io.Writer, s *RunSummary) error {
	fmt.Fprintf(w, "Schedule: %s\n", s.URL)

	if s.ParseStatus == "" {
		fmt.Fprintln(w, "Fetch failed; nothing was parsed or synced.")
		return nil
	}

	fmt.Fprintf(w, "Parsed %d classes from %d rows (%s)\n", s.Records, s.Rows, s.ParseStatus)
	if len(s.SkippedRows) > 0 {
		fmt.Fprintf(w, "Skipped %d rows:\n", len(s.SkippedRows))
		for _, row := range s.SkippedRows {
			fmt.Fprintf(w, "  %s\n", row)
		}
	}
	if s.SchemaDrift != "" {
		fmt.Fprintf(w, "Warning: %s\n", s.SchemaDrift)
	}

	switch s.SyncStatus {
	case syncAborted:
		fmt.Fprintln(w, "Sync not started.")
		return nil
	case syncSkipped:
		fmt.Fprintf(w, "Sync skipped: %s\n", s.SyncSkipped)
		return nil
	}

	label := "Sync"
	if s.DryRun {
		label = "Sync (dry run)"
	}
	fmt.Fprintf(w, "%s: %s\n", label, s.SyncStatus)

	t := newTable(w)
	t.AppendHeader(table.Row{"Inserted", "Updated", "Unchanged", "Failed"})
	t.AppendRow(table.Row{s.Sync.Inserted, s.Sync.Updated, s.Sync.Unchanged, len(s.Sync.Failed)})
	t.Render()

	for _, failed := range s.FailedRecords {
		fmt.Fprintf(w, "  FAILED: %s\n", failed)
	}
	return nil
}

func writeRecordsText(w io.Writer, records []offering.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No classes found.")
		return nil
	}

	header := make(table.Row, 0, len(offering.Schema))
	for _, h := range offering.Headers() {
		header = append(header, h)
	}

	t := newTable(w)
	t.AppendHeader(header)
	for _, rec := range records {
		row := make(table.Row, 0, len(offering.Schema))
		for _, v := range rec.Values() {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()

	fmt.Fprintf(w, "\nTotal: %d classes\n", len(records))
	return nil
}

func writeCourseListText(w io.Writer, courses []CourseSummary) error {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No stored classes.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Section", "Class Number", "Course Title", "Days", "Times"})
	for _, c := range courses {
		t.AppendRow(table.Row{c.Section, c.ClassNumber, c.CourseTitle, c.Days, c.Times})
	}
	t.Render()

	fmt.Fprintf(w, "\nTotal: %d classes\n", len(courses))
	return nil
}
