package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/studysync/coursesync/internal/repository"
	"github.com/studysync/coursesync/internal/scraper"
)

func TestWriteSummary_Text(t *testing.T) {
	tests := []struct {
		name    string
		summary *RunSummary
		want    []string
		notWant []string
	}{
		{
			name:    "fetch failed",
			summary: &RunSummary{URL: "https://example.edu", SyncStatus: syncAborted},
			want:    []string{"Schedule: https://example.edu", "Fetch failed"},
			notWant: []string{"Parsed"},
		},
		{
			name: "sync skipped",
			summary: &RunSummary{
				URL: "https://example.edu", ParseStatus: scraper.StatusComplete, Rows: 3, Records: 2,
				SyncStatus: syncSkipped, SyncSkipped: "no store URI configured",
			},
			want: []string{"Parsed 2 classes from 3 rows (complete)", "Sync skipped: no store URI configured"},
		},
		{
			name: "partial sync",
			summary: &RunSummary{
				URL: "https://example.edu", ParseStatus: scraper.StatusPartial, Rows: 5, Records: 3,
				SkippedRows: []string{"row 4 (1 cells): row has too few cells"},
				SchemaDrift: "schema drift: column 0 is \"Term\", want \"Section\"",
				SyncStatus:  string(repository.StatusPartial),
				Sync: &repository.SyncReport{
					Inserted: 1, Unchanged: 1,
					Failed: []repository.RecordError{{ClassNumber: "3", Err: errors.New("timeout")}},
				},
				FailedRecords: []string{"class 3: timeout"},
			},
			want: []string{"Skipped 1 rows", "row 4 (1 cells)", "Warning: schema drift", "Sync: partial", "FAILED: class 3: timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteSummary(&buf, tt.summary, FormatText); err != nil {
				t.Fatalf("WriteSummary() error: %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, out)
				}
			}
		})
	}
}

func TestWriteSummary_JSON(t *testing.T) {
	summary := &RunSummary{
		URL:         "https://example.edu",
		ParseStatus: scraper.StatusComplete,
		Records:     2,
		SyncStatus:  string(repository.StatusComplete),
		Sync:        &repository.SyncReport{Inserted: 2},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, summary, FormatJSON); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["sync_status"] != "complete" {
		t.Errorf("sync_status = %v", decoded["sync_status"])
	}
	sync, ok := decoded["sync"].(map[string]interface{})
	if !ok || sync["inserted"].(float64) != 2 {
		t.Errorf("sync = %v, want inserted 2", decoded["sync"])
	}
}

func TestWriteEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil, FormatText); err != nil {
		t.Fatal(err)
	}
	if err := WriteCourseList(&buf, nil, FormatText); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "No classes found.") || !strings.Contains(out, "No stored classes.") {
		t.Errorf("output = %q", out)
	}

	if err := WriteRecords(&buf, nil, OutputFormat("yaml")); err == nil {
		t.Error("unknown format expected error")
	}
}
