package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/studysync/coursesync/internal/offering"
)

func TestSync_InsertIntoEmpty(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: newTestStore(t)}

	report := Sync(ctx, store, testRecords(5))

	if report.Inserted != 5 || report.Updated != 0 || report.Unchanged != 0 {
		t.Errorf("report = %+v, want 5 inserted", report)
	}
	if report.Status() != StatusComplete {
		t.Errorf("Status() = %q, want %q", report.Status(), StatusComplete)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if diff := cmp.Diff(testRecords(5), stored); diff != "" {
		t.Errorf("stored records mismatch (-want +got):\n%s", diff)
	}
}

func TestSync_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: newTestStore(t)}
	records := testRecords(3)

	first := Sync(ctx, store, records)
	if first.Writes() != 3 {
		t.Fatalf("first sync writes = %d, want 3", first.Writes())
	}
	writesAfterFirst := store.writes()

	second := Sync(ctx, store, records)
	if second.Writes() != 0 || second.Unchanged != 3 {
		t.Errorf("second sync report = %+v, want 3 unchanged and no writes", second)
	}
	if got := store.writes() - writesAfterFirst; got != 0 {
		t.Errorf("second sync reached the store with %d writes, want 0", got)
	}

	stored, _ := store.List(ctx)
	if len(stored) != 3 {
		t.Errorf("stored %d records, want 3", len(stored))
	}
}

func TestSync_UpdateChangedRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := testRecord("C1")
	old.Units = "3"
	if err := store.Insert(ctx, old); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	changed := old
	changed.Units = "4"
	report := Sync(ctx, store, []offering.Record{changed})

	if report.Updated != 1 || report.Writes() != 1 {
		t.Errorf("report = %+v, want 1 update", report)
	}

	got, err := store.FindByClassNumber(ctx, "C1")
	if err != nil {
		t.Fatalf("FindByClassNumber() error: %v", err)
	}
	if got.Units != "4" {
		t.Errorf("stored units = %q, want 4", got.Units)
	}
	if got.ClassNumber != "C1" {
		t.Errorf("stored class number = %q, want C1", got.ClassNumber)
	}
}

func TestSyncRecord_Actions(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: newTestStore(t)}
	rec := testRecord("C2")

	steps := []struct {
		name       string
		rec        offering.Record
		wantAction Action
		wantWrites int
	}{
		{"absent record is inserted", rec, ActionInserted, 1},
		{"identical record is left alone", rec, ActionUnchanged, 1},
		{"changed title is updated", func() offering.Record { r := rec; r.CourseTitle = "Data Structures"; return r }(), ActionUpdated, 2},
		{"same change again is a no-op", func() offering.Record { r := rec; r.CourseTitle = "Data Structures"; return r }(), ActionUnchanged, 2},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			action, err := SyncRecord(ctx, store, step.rec)
			if err != nil {
				t.Fatalf("SyncRecord() error: %v", err)
			}
			if action != step.wantAction {
				t.Errorf("SyncRecord() = %q, want %q", action, step.wantAction)
			}
			if store.writes() != step.wantWrites {
				t.Errorf("writes = %d, want %d", store.writes(), step.wantWrites)
			}
		})
	}
}

func TestSync_FailureIsolatedPerRecord(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)
	store := &failingStore{
		Store:  base,
		failOn: map[string]bool{"12346": true, "insert:12348": true},
	}

	report := Sync(ctx, store, testRecords(5))

	if report.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3", report.Inserted)
	}
	if len(report.Failed) != 2 {
		t.Fatalf("Failed = %v, want 2 failures", report.Failed)
	}
	if report.Failed[0].ClassNumber != "12346" || report.Failed[1].ClassNumber != "12348" {
		t.Errorf("failed class numbers = %q, %q", report.Failed[0].ClassNumber, report.Failed[1].ClassNumber)
	}
	if !errors.Is(report.Err(), errInjected) {
		t.Errorf("Err() = %v, want injected failure", report.Err())
	}
	if report.Status() != StatusPartial {
		t.Errorf("Status() = %q, want %q", report.Status(), StatusPartial)
	}

	// records after the failures were still stored
	if _, err := base.FindByClassNumber(ctx, "12349"); err != nil {
		t.Errorf("record after failure not stored: %v", err)
	}
}

func TestSync_DuplicateClassNumbersInInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := testRecord("C3")
	second := first
	second.Section = "02"

	report := Sync(ctx, store, []offering.Record{first, second})
	if report.Inserted != 1 || report.Updated != 1 {
		t.Errorf("report = %+v, want 1 insert then 1 update", report)
	}

	stored, _ := store.List(ctx)
	if len(stored) != 1 || stored[0].Section != "02" {
		t.Errorf("stored = %+v, want the last occurrence", stored)
	}
}

func TestSyncReport_Status(t *testing.T) {
	tests := []struct {
		name   string
		report SyncReport
		want   Status
	}{
		{"empty", SyncReport{}, StatusEmpty},
		{"complete", SyncReport{Inserted: 1, Unchanged: 2}, StatusComplete},
		{"partial", SyncReport{Updated: 1, Failed: []RecordError{{ClassNumber: "1"}}}, StatusPartial},
		{"failed", SyncReport{Failed: []RecordError{{ClassNumber: "1"}, {ClassNumber: "2"}}}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSync_DryRun(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)
	if err := base.Insert(ctx, testRecord("12345")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	changed := testRecord("12345")
	changed.Days = "TR"
	records := []offering.Record{changed, testRecord("12346")}

	report := Sync(ctx, NewDryRunStore(base), records)
	if report.Inserted != 1 || report.Updated != 1 {
		t.Errorf("dry run report = %+v, want 1 insert and 1 update", report)
	}

	stored, _ := base.List(ctx)
	if len(stored) != 1 || stored[0].Days != "MW" {
		t.Errorf("dry run changed the store: %+v", stored)
	}
}

func TestSync_DryRunRepeatedClassNumber(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)

	later := testRecord("12345")
	later.Instructor = "Jones"
	records := []offering.Record{testRecord("12345"), later, later}

	report := Sync(ctx, NewDryRunStore(base), records)
	if report.Inserted != 1 || report.Updated != 1 || report.Unchanged != 1 {
		t.Errorf("dry run report = %+v, want 1 insert, 1 update, 1 unchanged", report)
	}

	stored, _ := base.List(ctx)
	if len(stored) != 0 {
		t.Errorf("dry run wrote %d records", len(stored))
	}
}
