package offering

import (
	"fmt"
	"strings"
)

// Column maps one table column position to a record field
type Column struct {
	Field  string // document field name
	Index  int    // zero-based cell position in a row
	Header string // header label expected at Index

	get func(Record) string
	set func(*Record, string)
}

// Schema is the ordered column layout of the schedule table.
// The page has trailing columns (open seats, notes) that are not stored.
var Schema = []Column{
	{Field: "section", Index: 0, Header: "Section",
		get: func(r Record) string { return r.Section }, set: func(r *Record, v string) { r.Section = v }},
	{Field: "class_number", Index: 1, Header: "Class Number",
		get: func(r Record) string { return r.ClassNumber }, set: func(r *Record, v string) { r.ClassNumber = v }},
	{Field: "mode_of_instruction", Index: 2, Header: "Mode of Instruction",
		get: func(r Record) string { return r.ModeOfInstruction }, set: func(r *Record, v string) { r.ModeOfInstruction = v }},
	{Field: "course_title", Index: 3, Header: "Course Title",
		get: func(r Record) string { return r.CourseTitle }, set: func(r *Record, v string) { r.CourseTitle = v }},
	{Field: "satisfies", Index: 4, Header: "Satisfies",
		get: func(r Record) string { return r.Satisfies }, set: func(r *Record, v string) { r.Satisfies = v }},
	{Field: "units", Index: 5, Header: "Units",
		get: func(r Record) string { return r.Units }, set: func(r *Record, v string) { r.Units = v }},
	{Field: "class_type", Index: 6, Header: "Type",
		get: func(r Record) string { return r.ClassType }, set: func(r *Record, v string) { r.ClassType = v }},
	{Field: "days", Index: 7, Header: "Days",
		get: func(r Record) string { return r.Days }, set: func(r *Record, v string) { r.Days = v }},
	{Field: "times", Index: 8, Header: "Times",
		get: func(r Record) string { return r.Times }, set: func(r *Record, v string) { r.Times = v }},
	{Field: "instructor", Index: 9, Header: "Instructor",
		get: func(r Record) string { return r.Instructor }, set: func(r *Record, v string) { r.Instructor = v }},
	{Field: "location", Index: 10, Header: "Location",
		get: func(r Record) string { return r.Location }, set: func(r *Record, v string) { r.Location = v }},
	{Field: "dates", Index: 11, Header: "Dates",
		get: func(r Record) string { return r.Dates }, set: func(r *Record, v string) { r.Dates = v }},
}

// ColumnCount is the minimum number of cells a data row needs; it equals
// len(Schema)
const ColumnCount = 12

// KeyField is the document field that identifies a record
const KeyField = "class_number"

// Lookup finds a schema column by field name
func Lookup(field string) (Column, bool) {
	for _, col := range Schema {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}

// Headers returns the expected header labels in schema order
func Headers() []string {
	headers := make([]string, len(Schema))
	for i, col := range Schema {
		headers[i] = col.Header
	}
	return headers
}

// SchemaDriftError reports a header row that no longer matches Schema
type SchemaDriftError struct {
	Index   int // column position of the first mismatch
	Want    string
	Got     string
	Missing bool // header row ends before Index
}

func (e *SchemaDriftError) Error() string {
	if e.Missing {
		return fmt.Sprintf("schema drift: header missing column %d (want %q)", e.Index, e.Want)
	}
	return fmt.Sprintf("schema drift: column %d is %q, want %q", e.Index, e.Got, e.Want)
}

// CheckHeader compares a table's header labels against Schema.
// Labels are compared case-insensitively with whitespace collapsed.
func CheckHeader(labels []string) error {
	for _, col := range Schema {
		if col.Index >= len(labels) {
			return &SchemaDriftError{Index: col.Index, Want: col.Header, Missing: true}
		}
		got := normalizeLabel(labels[col.Index])
		if !strings.EqualFold(got, col.Header) {
			return &SchemaDriftError{Index: col.Index, Want: col.Header, Got: got}
		}
	}
	return nil
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
