package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/studysync/coursesync/internal/logger"
	"github.com/studysync/coursesync/internal/offering"
)

// Status summarizes how much of the page was usable
type Status string

const (
	StatusEmpty    Status = "empty"    // no records parsed
	StatusPartial  Status = "partial"  // records parsed, some rows skipped
	StatusComplete Status = "complete" // every data row produced a record
)

// RowError describes a table row that could not be turned into a record
type RowError struct {
	Row   int // position among all table rows, header is 0
	Cells int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%d cells): %v", e.Row, e.Cells, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseResult is the outcome of parsing one schedule page
type ParseResult struct {
	Records []offering.Record
	Skipped []RowError
	Header  []string // trimmed labels of the first row
	Rows    int      // table rows found, including the header
	Drift   error    // *offering.SchemaDriftError when the header does not match
}

// Status reports whether the parse produced nothing, part of the table, or all of it
func (r *ParseResult) Status() Status {
	switch {
	case len(r.Records) == 0:
		return StatusEmpty
	case len(r.Skipped) > 0:
		return StatusPartial
	default:
		return StatusComplete
	}
}

// Err combines the skipped rows into one error, or nil if none were skipped
func (r *ParseResult) Err() error {
	if len(r.Skipped) == 0 {
		return nil
	}
	errs := make([]error, len(r.Skipped))
	for i, rowErr := range r.Skipped {
		errs[i] = rowErr
	}
	return errors.Join(errs...)
}

// Parse extracts course offering records from the schedule table.
//
// The first row is the header. Rows without any cells are separators and are
// dropped silently; rows that are too short or have no class number are
// recorded in Skipped. Records keep document order and are not deduplicated.
func Parse(r io.Reader) (*ParseResult, error) {
	start := time.Now()
	defer logger.Since("parse", start)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := doc.Find("tr")
	result := &ParseResult{
		Records: make([]offering.Record, 0, rows.Length()),
		Rows:    rows.Length(),
	}
	if rows.Length() == 0 {
		return result, nil
	}

	result.Header = cellTexts(rows.First().Find("th, td"))
	if err := offering.CheckHeader(result.Header); err != nil {
		result.Drift = err
		logger.Warn("Header row does not match column schema", logger.Fields{
			"header": result.Header,
		})
	}

	rows.Slice(1, rows.Length()).Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row.Find("td"))
		if len(cells) == 0 {
			return
		}

		rec, err := offering.FromCells(cells)
		if err != nil {
			rowErr := RowError{Row: i + 1, Cells: len(cells), Err: err}
			result.Skipped = append(result.Skipped, rowErr)
			logger.Warn("Skipping table row", logger.Fields{
				"row":   rowErr.Row,
				"cells": rowErr.Cells,
				"text":  strings.Join(cells, " | "),
			})
			return
		}

		result.Records = append(result.Records, rec)
	})

	logger.AddCounter("parse.records", int64(len(result.Records)))
	logger.AddCounter("parse.skipped", int64(len(result.Skipped)))

	return result, nil
}

func cellTexts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	})
}
