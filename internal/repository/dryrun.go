package repository

import (
	"context"
	"sync"

	"github.com/studysync/coursesync/internal/logger"
	"github.com/studysync/coursesync/internal/offering"
)

// DryRunStore reads from the wrapped store but only logs writes. Records it
// would have written are remembered for the life of the store so that later
// lookups see them, which keeps the report identical to a real run.
type DryRunStore struct {
	Store

	mu      sync.Mutex
	pending map[string]offering.Record
}

// NewDryRunStore wraps store so that Insert and Replace do nothing
func NewDryRunStore(store Store) *DryRunStore {
	return &DryRunStore{Store: store, pending: make(map[string]offering.Record)}
}

// FindByClassNumber prefers a record written earlier in the dry run
func (s *DryRunStore) FindByClassNumber(ctx context.Context, classNumber string) (offering.Record, error) {
	s.mu.Lock()
	rec, ok := s.pending[classNumber]
	s.mu.Unlock()
	if ok {
		return rec, nil
	}
	return s.Store.FindByClassNumber(ctx, classNumber)
}

// Insert logs the record that would be inserted
func (s *DryRunStore) Insert(_ context.Context, rec offering.Record) error {
	logger.Info("Dry run: would insert record", logger.Fields{
		"class_number": rec.ClassNumber,
		"course_title": rec.CourseTitle,
	})
	s.remember(rec)
	return nil
}

// Replace logs the record that would be updated
func (s *DryRunStore) Replace(_ context.Context, rec offering.Record) error {
	logger.Info("Dry run: would update record", logger.Fields{
		"class_number": rec.ClassNumber,
		"course_title": rec.CourseTitle,
	})
	s.remember(rec)
	return nil
}

func (s *DryRunStore) remember(rec offering.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[rec.ClassNumber] = rec
}
