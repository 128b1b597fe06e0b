package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studysync/coursesync/internal/offering"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPage  SortOrder = "page"  // order rows appear on the schedule page
	SortByClass SortOrder = "class" // class number
	SortByTitle SortOrder = "title" // course title, then section
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByPage, SortByClass, SortByTitle:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'page', 'class' or 'title')", s)
	}
}

// sortRecords sorts records in place; SortByPage keeps the current order
func sortRecords(records []offering.Record, order SortOrder) {
	switch order {
	case SortByClass:
		sort.SliceStable(records, func(i, j int) bool {
			return compareClassNumbers(records[i].ClassNumber, records[j].ClassNumber)
		})
	case SortByTitle:
		sort.SliceStable(records, func(i, j int) bool {
			ti, tj := strings.ToLower(records[i].CourseTitle), strings.ToLower(records[j].CourseTitle)
			if ti != tj {
				return ti < tj
			}
			return records[i].Section < records[j].Section
		})
	}
}

// compareClassNumbers orders numeric class numbers by value, shorter first
func compareClassNumbers(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
