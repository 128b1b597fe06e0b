package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studysync/coursesync/internal/logger"
	"github.com/studysync/coursesync/internal/offering"
)

// Action is what Sync did with one record
type Action string

const (
	ActionInserted  Action = "inserted"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionFailed    Action = "failed"
)

// Status summarizes a whole sync
type Status string

const (
	StatusEmpty    Status = "empty"    // nothing to sync
	StatusComplete Status = "complete" // every record synced
	StatusPartial  Status = "partial"  // some records failed
	StatusFailed   Status = "failed"   // every record failed
)

// RecordError is a persistence failure for one record
type RecordError struct {
	ClassNumber string
	Err         error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("class %s: %v", e.ClassNumber, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// SyncReport counts the outcome of a sync
type SyncReport struct {
	Inserted  int           `json:"inserted"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Failed    []RecordError `json:"-"`
}

// Total returns the number of records processed
func (r *SyncReport) Total() int {
	return r.Inserted + r.Updated + r.Unchanged + len(r.Failed)
}

// Writes returns the number of persisted writes
func (r *SyncReport) Writes() int {
	return r.Inserted + r.Updated
}

// Status reports whether the sync was complete, partial or failed
func (r *SyncReport) Status() Status {
	switch {
	case r.Total() == 0:
		return StatusEmpty
	case len(r.Failed) == 0:
		return StatusComplete
	case len(r.Failed) == r.Total():
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Err joins the per-record failures, or returns nil
func (r *SyncReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *SyncReport) add(action Action) {
	switch action {
	case ActionInserted:
		r.Inserted++
	case ActionUpdated:
		r.Updated++
	case ActionUnchanged:
		r.Unchanged++
	}
}

// Sync upserts each record into store by class number. A failed record is
// logged and recorded in the report; the remaining records are still synced.
func Sync(ctx context.Context, store Store, records []offering.Record) *SyncReport {
	start := time.Now()
	defer logger.Since("sync", start)

	report := &SyncReport{}
	for _, rec := range records {
		action, err := SyncRecord(ctx, store, rec)
		logger.IncrCounter("sync." + string(action))
		if err != nil {
			report.Failed = append(report.Failed, RecordError{ClassNumber: rec.ClassNumber, Err: err})
			logger.Error("Failed to sync record", logger.Fields{
				"class_number": rec.ClassNumber,
			}, err)
			continue
		}
		report.add(action)
	}

	return report
}

// SyncRecord inserts rec if its class number is not stored, updates it if any
// field differs, and does nothing if the stored record is identical.
func SyncRecord(ctx context.Context, store Store, rec offering.Record) (Action, error) {
	existing, err := store.FindByClassNumber(ctx, rec.ClassNumber)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := store.Insert(ctx, rec); err != nil {
			return ActionFailed, err
		}
		logger.Debug("Inserted record", logger.Fields{"class_number": rec.ClassNumber})
		return ActionInserted, nil
	case err != nil:
		return ActionFailed, err
	}

	if existing.Equal(rec) {
		return ActionUnchanged, nil
	}

	changes := offering.Diff(existing, rec)
	if err := store.Replace(ctx, rec); err != nil {
		return ActionFailed, err
	}
	logger.Info("Updated record", logger.Fields{
		"class_number": rec.ClassNumber,
		"changed":      offering.ChangedFields(changes),
	})
	return ActionUpdated, nil
}
