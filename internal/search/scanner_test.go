package search

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestScanFileBasicMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("foo\nbar\nfoo bar\n"))

	diag := &Diagnostics{}
	matches := scanFile(path, "foo", true, DefaultMaxLineLength, diag)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Number != 1 || matches[0].Text != "foo" {
		t.Errorf("first match = %+v, want line 1 %q", matches[0], "foo")
	}
	if matches[1].Number != 3 || matches[1].Text != "foo bar" {
		t.Errorf("second match = %+v, want line 3 %q", matches[1], "foo bar")
	}
	if diag.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", diag.FilesScanned)
	}
}

func TestScanFileCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("Hello World\n"))

	diag := &Diagnostics{}
	if got := scanFile(path, "hello", false, DefaultMaxLineLength, diag); len(got) != 1 {
		t.Errorf("case-insensitive scan found %d matches, want 1", len(got))
	}
	diag = &Diagnostics{}
	if got := scanFile(path, "hello", true, DefaultMaxLineLength, diag); len(got) != 0 {
		t.Errorf("case-sensitive scan found %d matches, want 0", len(got))
	}
}

func TestScanFileBinarySkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blob.bin", []byte("PK\x00\x01some archive data"))

	diag := &Diagnostics{}
	matches := scanFile(path, "archive", false, DefaultMaxLineLength, diag)

	if len(matches) != 0 {
		t.Errorf("binary file produced %d matches, want 0", len(matches))
	}
	if diag.BinarySkipped != 1 {
		t.Errorf("BinarySkipped = %d, want 1", diag.BinarySkipped)
	}
	if diag.FilesScanned != 0 {
		t.Errorf("FilesScanned = %d, want 0", diag.FilesScanned)
	}
}

func TestScanFileOpenError(t *testing.T) {
	diag := &Diagnostics{}
	matches := scanFile(filepath.Join(t.TempDir(), "missing.txt"), "x", false, DefaultMaxLineLength, diag)

	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
	if diag.AccessErrors != 1 {
		t.Errorf("AccessErrors = %d, want 1", diag.AccessErrors)
	}
	if len(diag.Errors) != 1 {
		t.Errorf("Errors len = %d, want 1", len(diag.Errors))
	}
}

func TestScanFileLongLineTruncated(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("a", 50) + "needle" + strings.Repeat("b", 50)
	path := writeFile(t, dir, "long.txt", []byte(long+"\nshort needle\n"))

	// Limit cuts the first line before the needle appears.
	diag := &Diagnostics{}
	matches := scanFile(path, "needle", true, 40, diag)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Number != 2 {
		t.Errorf("match on line %d, want 2 (line numbering must survive truncation)", matches[0].Number)
	}
	if diag.TruncatedLines == 0 {
		t.Error("expected truncated-line diagnostic")
	}
}

func TestScanFileTruncatedPrefixStillMatches(t *testing.T) {
	dir := t.TempDir()
	line := "needle" + strings.Repeat("x", 100)
	path := writeFile(t, dir, "long.txt", []byte(line))

	diag := &Diagnostics{}
	matches := scanFile(path, "needle", true, 20, diag)

	if len(matches) != 1 {
		t.Fatalf("expected match within truncated prefix, got %d matches", len(matches))
	}
	if !matches[0].Truncated {
		t.Error("match should be flagged truncated")
	}
	if len(matches[0].Text) != 20 {
		t.Errorf("truncated text length = %d, want 20", len(matches[0].Text))
	}
}

func TestScanFileShortLineNotTruncated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("exactly-twenty-chars"))

	diag := &Diagnostics{}
	matches := scanFile(path, "twenty", true, 20, diag)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Truncated {
		t.Error("line at the limit must not be flagged truncated")
	}
	if diag.TruncatedLines != 0 {
		t.Errorf("TruncatedLines = %d, want 0", diag.TruncatedLines)
	}
}

func TestScanFileInvalidUTF8Substituted(t *testing.T) {
	dir := t.TempDir()
	// One stray latin-1 byte inside otherwise valid text. Small enough
	// that the probe ratio keeps the file classified as text.
	data := append([]byte("caf"), 0xE9)
	data = append(data, []byte(" needle\nplain needle\n")...)
	path := writeFile(t, dir, "latin1.txt", data)

	diag := &Diagnostics{}
	matches := scanFile(path, "needle", true, DefaultMaxLineLength, diag)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d (scan must continue past bad bytes)", len(matches))
	}
	if diag.DecodeSubstitutions != 1 {
		t.Errorf("DecodeSubstitutions = %d, want 1", diag.DecodeSubstitutions)
	}
	if !strings.Contains(matches[0].Text, "�") {
		t.Errorf("bad byte should be replaced, got %q", matches[0].Text)
	}
}

func TestScanFileCRLFTerminatorsStripped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dos.txt", []byte("needle one\r\nneedle two\r\n"))

	diag := &Diagnostics{}
	matches := scanFile(path, "needle", true, DefaultMaxLineLength, diag)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if strings.ContainsAny(m.Text, "\r\n") {
			t.Errorf("line %d text %q contains a terminator", m.Number, m.Text)
		}
	}
	if matches[0].Text != "needle one" || matches[1].Text != "needle two" {
		t.Errorf("texts = %q, %q", matches[0].Text, matches[1].Text)
	}
}

func TestScanFileNoTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("first\nlast needle"))

	diag := &Diagnostics{}
	matches := scanFile(path, "needle", true, DefaultMaxLineLength, diag)

	if len(matches) != 1 || matches[0].Number != 2 {
		t.Fatalf("expected match on final unterminated line, got %+v", matches)
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name  string
		chunk []byte
		want  bool
	}{
		{"empty", nil, false},
		{"plain text", []byte("hello world\n"), false},
		{"null byte", []byte("abc\x00def"), true},
		{"utf8 text", []byte("héllo wörld ünïcode"), false},
		{"mostly control bytes", bytes.Repeat([]byte{0x01, 0x02, 'a'}, 20), true},
		{"tabs and newlines", []byte("a\tb\r\nc\n"), false},
	}

	for _, tt := range tests {
		if got := isBinary(tt.chunk); got != tt.want {
			t.Errorf("%s: isBinary = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsBinaryRuneCutAtProbeBoundary(t *testing.T) {
	// A multibyte rune split at the probe boundary must not flip a text
	// file to binary.
	chunk := append(bytes.Repeat([]byte("ascii text "), 10), 0xC3)
	if isBinary(chunk) {
		t.Error("trailing partial rune misclassified as binary")
	}
}
