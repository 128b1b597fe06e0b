package offering

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrShortRow is returned by FromCells when a row has fewer cells than the schema needs
	ErrShortRow = errors.New("row has too few cells")
	// ErrMissingClassNumber is returned by FromCells when the key column is blank
	ErrMissingClassNumber = errors.New("row has no class number")
)

// Record represents one scheduled class section
type Record struct {
	Section           string `json:"section" bson:"section"`
	ClassNumber       string `json:"class_number" bson:"class_number"`
	ModeOfInstruction string `json:"mode_of_instruction" bson:"mode_of_instruction"`
	CourseTitle       string `json:"course_title" bson:"course_title"`
	Satisfies         string `json:"satisfies" bson:"satisfies"`
	Units             string `json:"units" bson:"units"`
	ClassType         string `json:"class_type" bson:"class_type"`
	Days              string `json:"days" bson:"days"`
	Times             string `json:"times" bson:"times"`
	Instructor        string `json:"instructor" bson:"instructor"`
	Location          string `json:"location" bson:"location"`
	Dates             string `json:"dates" bson:"dates"`
}

// FromCells builds a record from a row's cell texts using Schema.
// Cells beyond the last schema column are ignored.
func FromCells(cells []string) (Record, error) {
	var rec Record
	if len(cells) < ColumnCount {
		return rec, fmt.Errorf("%w: got %d, want at least %d", ErrShortRow, len(cells), ColumnCount)
	}

	for _, col := range Schema {
		col.set(&rec, strings.TrimSpace(cells[col.Index]))
	}

	if rec.ClassNumber == "" {
		return rec, ErrMissingClassNumber
	}
	return rec, nil
}

// Get returns the value of the named field, or "" if the field is unknown
func (r Record) Get(field string) string {
	col, ok := Lookup(field)
	if !ok {
		return ""
	}
	return col.get(r)
}

// Values returns the field values in schema order
func (r Record) Values() []string {
	values := make([]string, len(Schema))
	for i, col := range Schema {
		values[i] = col.get(r)
	}
	return values
}

// Equal reports whether every field of r matches other
func (r Record) Equal(other Record) bool {
	return r == other
}

// FieldChange is a single field that differs between two versions of a record
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Diff compares two versions of a record and returns the fields that changed,
// in schema order.
func Diff(previous, current Record) []FieldChange {
	var changes []FieldChange
	for _, col := range Schema {
		oldValue, newValue := col.get(previous), col.get(current)
		if oldValue != newValue {
			changes = append(changes, FieldChange{
				Field:    col.Field,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}
	return changes
}

// ChangedFields returns just the field names from a list of changes
func ChangedFields(changes []FieldChange) []string {
	fields := make([]string, len(changes))
	for i, c := range changes {
		fields[i] = c.Field
	}
	return fields
}
