package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/studysync/coursesync/internal/offering"
)

// countingStore records how many writes reach the wrapped store
type countingStore struct {
	Store
	mu       sync.Mutex
	inserts  int
	replaces int
}

func (s *countingStore) Insert(ctx context.Context, rec offering.Record) error {
	s.mu.Lock()
	s.inserts++
	s.mu.Unlock()
	return s.Store.Insert(ctx, rec)
}

func (s *countingStore) Replace(ctx context.Context, rec offering.Record) error {
	s.mu.Lock()
	s.replaces++
	s.mu.Unlock()
	return s.Store.Replace(ctx, rec)
}

func (s *countingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts + s.replaces
}

// failingStore fails every operation on the given class numbers
type failingStore struct {
	Store
	failOn map[string]bool
}

var errInjected = errors.New("injected failure")

func (s *failingStore) FindByClassNumber(ctx context.Context, classNumber string) (offering.Record, error) {
	if s.failOn[classNumber] {
		return offering.Record{}, errInjected
	}
	return s.Store.FindByClassNumber(ctx, classNumber)
}

func (s *failingStore) Insert(ctx context.Context, rec offering.Record) error {
	if s.failOn["insert:"+rec.ClassNumber] {
		return errInjected
	}
	return s.Store.Insert(ctx, rec)
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "", "")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return store
}

func testRecord(classNumber string) offering.Record {
	return offering.Record{
		Section:           "01",
		ClassNumber:       classNumber,
		ModeOfInstruction: "SY",
		CourseTitle:       "Intro to CS",
		Units:             "3",
		ClassType:         "LEC",
		Days:              "MW",
		Times:             "10:00-11:15",
		Instructor:        "Smith",
		Location:          "ON101",
		Dates:             "08/21-12/11",
	}
}

func testRecords(n int) []offering.Record {
	records := make([]offering.Record, n)
	for i := range records {
		records[i] = testRecord(fmt.Sprint(12345 + i))
	}
	return records
}
