// Package cli implements the coursesync command-line interface.
//
// The root command runs one sync: it fetches the schedule page, parses the
// class table, and upserts the records into the configured document store.
// The parse subcommand stops after parsing and prints the records; list
// prints what is already stored. Settings come from flags, which default to
// the environment loaded by package config.
package cli
