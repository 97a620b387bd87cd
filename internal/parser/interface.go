package parser

import "querylog/internal/record"

// LineParser turns one raw log line into a field record. Implementations
// may keep per-scan state (the run-query parser anchors offset fields to
// the first line it sees), so a parser instance belongs to exactly one scan.
type LineParser interface {
	Parse(line string) (*record.Record, error)

	// Matches reports whether the line belongs to this parser at all.
	// Non-matching lines are skipped by the scanner, never errors.
	Matches(line string) bool
}
