package search

import "time"

// Diagnostics accumulates the non-fatal conditions of one search call.
// Each call owns its own accumulator; nothing here is global.
type Diagnostics struct {
	// RunID identifies this search invocation (also used by the run
	// history).
	RunID string

	// EntriesVisited counts every filesystem node the walk touched.
	EntriesVisited int

	// FilesScanned counts files whose content was actually read.
	FilesScanned int

	// BytesScanned totals the content bytes read across all files.
	BytesScanned int64

	// BinarySkipped counts files excluded by the binary probe.
	BinarySkipped int

	// AccessErrors counts entries or directories skipped because of
	// permission or I/O failures.
	AccessErrors int

	// TruncatedLines counts lines cut at the line length limit.
	TruncatedLines int

	// DecodeSubstitutions counts lines where undecodable bytes were
	// replaced before matching.
	DecodeSubstitutions int

	// Matches counts emitted results.
	Matches int

	// Duration is the wall-clock time of the walk.
	Duration time.Duration

	// Errors holds the recorded per-entry errors, in the order they
	// occurred.
	Errors []error
}

// recordAccessError notes a skipped entry without aborting the walk.
func (d *Diagnostics) recordAccessError(err error) {
	d.AccessErrors++
	d.Errors = append(d.Errors, err)
}
