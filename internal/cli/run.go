package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/studysync/coursesync/internal/logger"
	"github.com/studysync/coursesync/internal/offering"
	"github.com/studysync/coursesync/internal/repository"
	"github.com/studysync/coursesync/internal/scraper"
)

const (
	syncAborted = "aborted" // fetch or parse failed, sync never started
	syncSkipped = "skipped" // no usable store
)

// RunSummary describes the outcome of one sync run
type RunSummary struct {
	CheckedAt     time.Time              `json:"checked_at"`
	URL           string                 `json:"url"`
	ParseStatus   scraper.Status         `json:"parse_status,omitempty"`
	Rows          int                    `json:"rows"`
	Records       int                    `json:"records"`
	SkippedRows   []string               `json:"skipped_rows,omitempty"`
	SchemaDrift   string                 `json:"schema_drift,omitempty"`
	SyncStatus    string                 `json:"sync_status"`
	SyncSkipped   string                 `json:"sync_skipped_reason,omitempty"`
	Sync          *repository.SyncReport `json:"sync,omitempty"`
	FailedRecords []string               `json:"failed_records,omitempty"`
	DryRun        bool                   `json:"dry_run,omitempty"`
}

func (s *RunSummary) addParse(result *scraper.ParseResult) {
	s.ParseStatus = result.Status()
	s.Rows = result.Rows
	s.Records = len(result.Records)
	for _, rowErr := range result.Skipped {
		s.SkippedRows = append(s.SkippedRows, rowErr.Error())
	}
	if result.Drift != nil {
		s.SchemaDrift = result.Drift.Error()
	}
}

func (s *RunSummary) addSync(report *repository.SyncReport) {
	s.Sync = report
	s.SyncStatus = string(report.Status())
	for _, f := range report.Failed {
		s.FailedRecords = append(s.FailedRecords, f.Error())
	}
}

// runSync fetches, parses and syncs once. The summary is always returned; the
// error names the first stage that did not fully succeed.
func runSync(ctx context.Context, opts *options) (*RunSummary, error) {
	summary := &RunSummary{
		CheckedAt:  time.Now().UTC(),
		URL:        opts.url,
		SyncStatus: syncAborted,
		DryRun:     opts.dryRun,
	}

	result, err := fetchAndParse(ctx, opts)
	if err != nil {
		return summary, err
	}
	summary.addParse(result)

	logger.Info("Parsed schedule", logger.Fields{
		"rows":    result.Rows,
		"records": len(result.Records),
		"skipped": len(result.Skipped),
		"status":  result.Status(),
	})

	if result.Drift != nil && opts.strict {
		logger.Error("Schema drift detected, not syncing", nil, result.Drift)
		return summary, result.Drift
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	store, err := repository.Open(connectCtx, opts.storeOptions())
	cancel()
	if err != nil {
		summary.SyncStatus = syncSkipped
		summary.SyncSkipped = err.Error()
		logger.Warn("Skipping sync, no usable store", logger.Fields{
			"uri":   repository.Redact(opts.mongoURI),
			"error": err.Error(),
		})
		return summary, fmt.Errorf("opening store: %w", err)
	}
	defer closeStore(ctx, store)

	report := repository.Sync(ctx, store, result.Records)
	summary.addSync(report)

	logger.Info("Sync finished", logger.Fields{
		"inserted":  report.Inserted,
		"updated":   report.Updated,
		"unchanged": report.Unchanged,
		"failed":    len(report.Failed),
		"status":    report.Status(),
		"dry_run":   opts.dryRun,
	})

	if err := report.Err(); err != nil {
		return summary, fmt.Errorf("syncing records: %w", err)
	}
	return summary, nil
}

func fetchAndParse(ctx context.Context, opts *options) (*scraper.ParseResult, error) {
	fetcher := scraper.NewFetcher(opts.url, opts.timeout)

	body, err := fetcher.Fetch(ctx)
	if err != nil {
		logger.Error("Fetch failed, nothing to parse", logger.Fields{"url": fetcher.URL()}, err)
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	result, err := scraper.Parse(bytes.NewReader(body))
	if err != nil {
		logger.Error("Parse failed", logger.Fields{"url": fetcher.URL()}, err)
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}
	return result, nil
}

// runSyncCmd reports every failure but only exits non-zero with --strict
func runSyncCmd(cmd *cobra.Command, opts *options) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	summary, runErr := runSync(cmd.Context(), opts)
	logger.Debug("Run metrics", logger.Fields(logger.GetMetricsSnapshot()))

	if err := WriteSummary(cmd.OutOrStdout(), summary, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if runErr != nil && opts.strict {
		return runErr
	}
	return nil
}

func runParseCmd(cmd *cobra.Command, opts *options) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.parseSort)
	if err != nil {
		return err
	}

	result, err := fetchAndParse(cmd.Context(), opts)
	if err != nil {
		return err
	}

	records := append([]offering.Record(nil), result.Records...)
	sortRecords(records, order)

	if err := WriteRecords(cmd.OutOrStdout(), records, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func runListCmd(cmd *cobra.Command, opts *options) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.listSort)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	store, err := repository.Open(connectCtx, opts.storeOptions())
	cancel()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore(ctx, store)

	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	sortRecords(records, order)

	if err := WriteCourseList(cmd.OutOrStdout(), records, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// closeStore closes store after the command finishes, logging any error
func closeStore(ctx context.Context, store repository.Store) {
	if err := store.Close(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Closing store failed", logger.Fields{"error": err.Error()})
	}
}
