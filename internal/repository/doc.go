// Package repository persists course offering records in a document store and
// keeps the stored collection in step with the latest scrape.
//
// Records are keyed by class number. Sync upserts each record on its own: it
// inserts records that are missing, rewrites records whose fields changed and
// leaves identical records untouched, so repeating a sync with unchanged input
// performs no writes. A failure on one record is reported and the rest of the
// batch still runs; nothing is rolled back.
//
// MongoStore is the production backend. FileStore keeps the same collection in
// a local JSON file and DryRunStore wraps either one to suppress writes.
package repository
