// Package search implements the traversal-and-matching core of fsearch:
// wildcard name matching, streaming content scans with binary detection,
// and two interchangeable directory-walking strategies under a shared
// depth and symlink policy.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine runs one search request. The walker strategy is fixed at
// construction time; Run performs a fresh walk on every call.
type Engine struct {
	req    Request
	walker DirectoryWalker
}

// NewEngine validates the request and binds the traversal strategy.
func NewEngine(req Request) (*Engine, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	walker, err := NewWalker(req.Method)
	if err != nil {
		return nil, err
	}
	return &Engine{req: req, walker: walker}, nil
}

// Run walks the tree and streams results to visit in deterministic
// depth-first order. Returning false from visit stops the walk early;
// any open handles are released before Run returns. The returned
// Diagnostics reflects everything processed up to that point.
func (e *Engine) Run(ctx context.Context, visit func(Result) bool) (*Diagnostics, error) {
	diag := &Diagnostics{RunID: uuid.NewString()}
	start := time.Now()

	req := e.req
	contentPattern := req.Pattern
	if req.ContentMode {
		// The content pattern is literal text; wildcard characters
		// from a reused name pattern are dropped.
		contentPattern = strings.NewReplacer("*", "", "?", "").Replace(req.Pattern)
	}

	err := e.walker.Walk(ctx, req.BasePath, req.MaxDepth, func(entry Entry) bool {
		diag.EntriesVisited++

		// The include set scopes which entries are eligible for
		// matching. A filtered-out directory is still recursed into;
		// only its own emission is suppressed.
		if !MatchesAny(entry.Name, req.IncludePatterns) {
			return true
		}

		if req.ContentMode {
			// Directories are never content candidates.
			if entry.IsDir {
				return true
			}
			lines := scanFile(entry.Path, contentPattern, req.CaseSensitive, req.lineLimit(), diag)
			if len(lines) == 0 {
				return true
			}
			diag.Matches++
			return visit(Result{Path: entry.Path, Depth: entry.Depth, Lines: lines})
		}

		if entry.IsDir && req.FilesOnly {
			return true
		}
		if !Matches(entry.Name, req.Pattern, req.CaseSensitive) {
			return true
		}
		diag.Matches++
		return visit(Result{Path: entry.Path, IsDir: entry.IsDir, Depth: entry.Depth})
	}, diag)

	diag.Duration = time.Since(start)
	if err != nil {
		return diag, err
	}
	return diag, nil
}

// Collect runs the search and gathers every result into a slice.
func (e *Engine) Collect(ctx context.Context) ([]Result, *Diagnostics, error) {
	var results []Result
	diag, err := e.Run(ctx, func(r Result) bool {
		results = append(results, r)
		return true
	})
	return results, diag, err
}
