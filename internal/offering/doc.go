// Package offering defines the course offering record scraped from the class
// schedule table and the column schema used to build it.
//
// A record is a flat set of text fields keyed by its class number. Fields are
// assigned purely by column position, so the schema also carries the header
// label expected at each position; CheckHeader uses those labels to report
// when the source page has added, removed or reordered a column.
package offering
