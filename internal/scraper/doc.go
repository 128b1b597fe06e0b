// Package scraper fetches the public class schedule page and parses its table
// into course offering records.
//
// Fetching and parsing are separate steps: Fetcher returns the raw page body
// and Parse turns any HTML reader into a ParseResult. The first table row is
// treated as the header; every later row with cells becomes one record, and
// rows that cannot be mapped onto the column schema are skipped and reported
// rather than failing the whole page.
package scraper
