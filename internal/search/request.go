package search

import (
	"fmt"
	"os"
)

// Method selects the directory traversal strategy.
type Method int

const (
	// MethodScan walks the tree one directory level at a time, pruning
	// branches as soon as they exceed the depth limit. Lower peak memory,
	// faster for shallow searches.
	MethodScan Method = iota + 1

	// MethodGlob enumerates the whole subtree first and filters the
	// result by depth afterwards.
	MethodGlob
)

// String returns the CLI name of the method.
func (m Method) String() string {
	switch m {
	case MethodScan:
		return "scan"
	case MethodGlob:
		return "glob"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod converts a CLI method name or the legacy numeric form
// (1=scan, 2=glob) into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "scan", "1":
		return MethodScan, nil
	case "glob", "rglob", "2":
		return MethodGlob, nil
	default:
		return 0, &ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %q (want scan or glob)", s)}
	}
}

// DefaultMaxLineLength bounds how much of a single line is kept in memory
// during a content scan. Lines longer than this are truncated before
// matching.
const DefaultMaxLineLength = 10000

// Request describes a single search. It is constructed once per
// invocation and treated as immutable by the engine.
type Request struct {
	// Pattern is a wildcard pattern for name searches, or the literal
	// text to look for when ContentMode is set.
	Pattern string

	// BasePath is the directory the walk starts from. Must exist and be
	// a directory.
	BasePath string

	// MaxDepth limits how far below BasePath the walk descends.
	// 0 means entries directly in BasePath only.
	MaxDepth int

	// CaseSensitive controls both name and content matching.
	CaseSensitive bool

	// IncludePatterns narrows which files are eligible at all. Empty
	// means every file. Matched case-insensitively against base names.
	IncludePatterns []string

	// FilesOnly excludes directories from the results. Directories are
	// still recursed into.
	FilesOnly bool

	// ContentMode switches from name matching to in-file line matching.
	ContentMode bool

	// Method selects the traversal strategy.
	Method Method

	// MaxLineLength overrides DefaultMaxLineLength when > 0.
	MaxLineLength int
}

// ValidationError reports a malformed request. It is the only error class
// that aborts a search before any results are produced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Validate checks the request invariants. The engine calls this before
// starting a walk.
func (r *Request) Validate() error {
	if r.Pattern == "" {
		return &ValidationError{Field: "pattern", Reason: "must not be empty"}
	}
	if r.MaxDepth < 0 {
		return &ValidationError{Field: "maxDepth", Reason: fmt.Sprintf("must be >= 0, got %d", r.MaxDepth)}
	}
	if r.Method != MethodScan && r.Method != MethodGlob {
		return &ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %d", int(r.Method))}
	}
	if r.MaxLineLength < 0 {
		return &ValidationError{Field: "maxLineLength", Reason: fmt.Sprintf("must be >= 0, got %d", r.MaxLineLength)}
	}
	info, err := os.Stat(r.BasePath)
	if err != nil {
		return &ValidationError{Field: "basePath", Reason: fmt.Sprintf("does not exist: %s", r.BasePath)}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "basePath", Reason: fmt.Sprintf("not a directory: %s", r.BasePath)}
	}
	return nil
}

// lineLimit returns the effective maximum line length for content scans.
func (r *Request) lineLimit() int {
	if r.MaxLineLength > 0 {
		return r.MaxLineLength
	}
	return DefaultMaxLineLength
}

// Entry is one filesystem node visited during a walk. Depth is relative
// to the base path: direct children of the base path are depth 0.
type Entry struct {
	Path  string
	Name  string
	IsDir bool
	Depth int
}

// LineMatch is a single matching line inside a file.
type LineMatch struct {
	// Number is 1-based, counted from the start of the file.
	Number int

	// Text is the line content after truncation and replacement of
	// undecodable bytes.
	Text string

	// Truncated marks lines that exceeded the line length limit.
	Truncated bool
}

// Result is one emitted match. For name searches Lines is nil; for
// content searches Lines holds the matching lines in ascending order.
type Result struct {
	Path  string
	IsDir bool
	Depth int
	Lines []LineMatch
}
