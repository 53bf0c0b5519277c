package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cumulus13/fsearch/internal/search"
)

func TestResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Results(nil)

	if !strings.Contains(buf.String(), "No results found") {
		t.Errorf("empty results output = %q", buf.String())
	}
}

func TestResultsNameMatches(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Results([]search.Result{
		{Path: "/tmp/a.txt"},
		{Path: "/tmp/b.txt"},
	})

	out := buf.String()
	if !strings.Contains(out, "FOUND:") || !strings.Contains(out, " 2 ") {
		t.Errorf("missing FOUND banner: %q", out)
	}
	if !strings.Contains(out, "1. /tmp/a.txt") || !strings.Contains(out, "2. /tmp/b.txt") {
		t.Errorf("missing numbered paths: %q", out)
	}
}

func TestResultsIndexZeroPadding(t *testing.T) {
	var buf bytes.Buffer
	results := make([]search.Result, 12)
	for i := range results {
		results[i] = search.Result{Path: "/tmp/f"}
	}
	NewRenderer(&buf).Results(results)

	if !strings.Contains(buf.String(), "01. ") {
		t.Errorf("indices should be zero-padded to the widest index: %q", buf.String())
	}
}

func TestResultsContentMatches(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Results([]search.Result{
		{
			Path: "/tmp/a.txt",
			Lines: []search.LineMatch{
				{Number: 3, Text: "foo bar"},
				{Number: 9, Text: "truncated one", Truncated: true},
			},
		},
	})

	out := buf.String()
	if !strings.Contains(out, " 3 ") || !strings.Contains(out, "foo bar") {
		t.Errorf("missing line match: %q", out)
	}
	if !strings.Contains(out, "[truncated]") {
		t.Errorf("missing truncation marker: %q", out)
	}
}

func TestDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	d := &search.Diagnostics{
		RunID:          "run-1",
		EntriesVisited: 42,
		FilesScanned:   7,
		BytesScanned:   2048,
		BinarySkipped:  1,
		AccessErrors:   1,
		Duration:       15 * time.Millisecond,
		Errors:         []error{errors.New("open /x: permission denied")},
	}
	NewRenderer(&buf).Diagnostics(d)

	out := buf.String()
	for _, want := range []string{"run-1", "42", "binary files skipped:  1", "permission denied", "kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics output missing %q: %q", want, out)
		}
	}
}

func TestNonTerminalWriterHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Results([]search.Result{{Path: "/tmp/a.txt"}})

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("ANSI escapes written to a non-terminal: %q", buf.String())
	}
}
