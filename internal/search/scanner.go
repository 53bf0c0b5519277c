package search

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// probeSize is how many leading bytes are inspected to decide whether a
// file is binary.
const probeSize = 1024

// binaryRatio is the fraction of non-text bytes in the probe above which
// a file without null bytes is still treated as binary.
const binaryRatio = 0.3

// scanFile streams one file and returns the lines containing pattern.
// The file is read strictly line by line so memory stays bounded no
// matter how large the file is. Open failures and binary files yield no
// matches and are recorded in diag; neither aborts the surrounding walk.
func scanFile(path, pattern string, caseSensitive bool, maxLineLength int, diag *Diagnostics) []LineMatch {
	f, err := os.Open(path)
	if err != nil {
		diag.recordAccessError(fmt.Errorf("open %s: %w", path, err))
		return nil
	}
	defer f.Close()

	probe := make([]byte, probeSize)
	n, err := f.Read(probe)
	if err != nil && err != io.EOF {
		diag.recordAccessError(fmt.Errorf("read %s: %w", path, err))
		return nil
	}
	if isBinary(probe[:n]) {
		diag.BinarySkipped++
		return nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		diag.recordAccessError(fmt.Errorf("seek %s: %w", path, err))
		return nil
	}

	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}

	diag.FilesScanned++

	var matches []LineMatch
	r := bufio.NewReaderSize(f, 64*1024)
	lineNum := 0
	for {
		line, truncated, err := readBoundedLine(r, maxLineLength)
		if err == io.EOF && line == nil {
			break
		}
		if err != nil && err != io.EOF {
			diag.recordAccessError(fmt.Errorf("read %s: %w", path, err))
			break
		}

		lineNum++
		diag.BytesScanned += int64(len(line))
		if truncated {
			diag.TruncatedLines++
		}

		text := string(line)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "�")
			diag.DecodeSubstitutions++
		}

		haystack := text
		if !caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if strings.Contains(haystack, pattern) {
			// ReadLine already strips the terminator, so text is
			// stored as-is.
			matches = append(matches, LineMatch{
				Number:    lineNum,
				Text:      text,
				Truncated: truncated,
			})
		}

		if err == io.EOF {
			break
		}
	}
	return matches
}

// readBoundedLine reads the next line, keeping at most limit bytes of it.
// The remainder of an over-long line is consumed and discarded so that
// line accounting stays correct. Returns (nil, false, io.EOF) at end of
// input.
func readBoundedLine(r *bufio.Reader, limit int) (line []byte, truncated bool, err error) {
	for {
		chunk, isPrefix, rerr := r.ReadLine()
		if rerr != nil {
			if rerr == io.EOF && line != nil {
				return line, truncated, io.EOF
			}
			return line, truncated, rerr
		}

		if !truncated {
			room := limit - len(line)
			if len(chunk) <= room {
				line = append(line, chunk...)
			} else {
				line = append(line, chunk[:room]...)
				truncated = true
			}
		}
		if line == nil {
			// Distinguish an empty line from EOF.
			line = []byte{}
		}

		if !isPrefix {
			return line, truncated, nil
		}
	}
}

// isBinary reports whether the probed chunk looks like non-text data.
// A null byte is decisive; otherwise the chunk is scanned as UTF-8 and
// judged by the ratio of undecodable or control bytes.
func isBinary(chunk []byte) bool {
	if len(chunk) == 0 {
		return false
	}
	nonText := 0
	for i := 0; i < len(chunk); {
		b := chunk[i]
		if b == 0 {
			return true
		}
		if b < utf8.RuneSelf {
			if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
				nonText++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(chunk[i:])
		if r == utf8.RuneError && size == 1 {
			// Could be a multibyte rune cut off at the probe boundary.
			if len(chunk)-i < utf8.UTFMax && i > 0 {
				break
			}
			nonText++
		}
		i += size
	}
	return float64(nonText)/float64(len(chunk)) > binaryRatio
}
