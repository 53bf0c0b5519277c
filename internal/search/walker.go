package search

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// visitFunc receives each entry in emission order. Returning false stops
// the walk; all directory handles are released before Walk returns.
type visitFunc func(Entry) bool

// DirectoryWalker enumerates the entries below a base path up to a depth
// limit. The two implementations are a performance choice, not a
// semantic one: for the same inputs they must visit the same entries in
// the same depth-first order.
type DirectoryWalker interface {
	Walk(ctx context.Context, basePath string, maxDepth int, visit visitFunc, diag *Diagnostics) error
}

// NewWalker returns the walker for the given method.
func NewWalker(m Method) (DirectoryWalker, error) {
	switch m {
	case MethodScan:
		return &scanWalker{}, nil
	case MethodGlob:
		return &globWalker{}, nil
	default:
		return nil, &ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %d", int(m))}
	}
}

// classifyEntry resolves a directory entry into an Entry and decides
// whether the walker may descend into it. Symlinks to files are followed
// and treated as files; symlinks to directories become non-traversable
// leaf entries so a cyclic link can never loop the walk. A broken
// symlink is recorded and dropped.
func classifyEntry(parent string, d fs.DirEntry, depth int, diag *Diagnostics) (entry Entry, descend bool, ok bool) {
	path := filepath.Join(parent, d.Name())

	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			diag.recordAccessError(fmt.Errorf("stat %s: %w", path, err))
			return Entry{}, false, false
		}
		return Entry{Path: path, Name: d.Name(), IsDir: info.IsDir(), Depth: depth}, false, true
	}

	return Entry{Path: path, Name: d.Name(), IsDir: d.IsDir(), Depth: depth}, d.IsDir(), true
}

// scanWalker lists one directory level at a time and recurses, pruning a
// branch the moment it would exceed the depth limit. Nothing deeper than
// the limit is ever enumerated.
type scanWalker struct{}

func (w *scanWalker) Walk(ctx context.Context, basePath string, maxDepth int, visit visitFunc, diag *Diagnostics) error {
	_, err := w.walkDir(ctx, basePath, 0, maxDepth, visit, diag)
	return err
}

// walkDir visits the entries of dir, which sit at the given depth.
// Returns false when the visitor asked to stop.
func (w *scanWalker) walkDir(ctx context.Context, dir string, depth, maxDepth int, visit visitFunc, diag *Diagnostics) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// An unreadable directory skips only its own subtree.
		diag.recordAccessError(fmt.Errorf("read dir %s: %w", dir, err))
		return true, nil
	}

	for _, d := range entries {
		entry, descend, ok := classifyEntry(dir, d, depth, diag)
		if !ok {
			continue
		}
		if !visit(entry) {
			return false, nil
		}
		if descend && depth+1 <= maxDepth {
			cont, err := w.walkDir(ctx, entry.Path, depth+1, maxDepth, visit, diag)
			if err != nil || !cont {
				return cont, err
			}
		}
	}
	return true, nil
}

// globWalker enumerates the whole subtree below the base path first,
// filters out entries beyond the depth limit, and normalizes the
// remainder to depth-first order before visiting. Simpler to reason
// about, at the cost of touching more of the tree upfront.
type globWalker struct{}

func (w *globWalker) Walk(ctx context.Context, basePath string, maxDepth int, visit visitFunc, diag *Diagnostics) error {
	var all []Entry
	if err := w.collect(ctx, basePath, 0, &all, diag); err != nil {
		return err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return depthFirstLess(all[i].Path, all[j].Path)
	})

	for _, entry := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Depth > maxDepth {
			continue
		}
		if !visit(entry) {
			return nil
		}
	}
	return nil
}

// collect gathers every entry reachable without following directory
// symlinks. Depth filtering happens afterwards, in Walk.
func (w *globWalker) collect(ctx context.Context, dir string, depth int, out *[]Entry, diag *Diagnostics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		diag.recordAccessError(fmt.Errorf("read dir %s: %w", dir, err))
		return nil
	}

	for _, d := range entries {
		entry, descend, ok := classifyEntry(dir, d, depth, diag)
		if !ok {
			continue
		}
		*out = append(*out, entry)
		if descend {
			if err := w.collect(ctx, entry.Path, depth+1, out, diag); err != nil {
				return err
			}
		}
	}
	return nil
}

// depthFirstLess orders paths the way a depth-first walk with sorted
// siblings emits them. Plain lexicographic comparison would interleave
// "a.txt" between "a" and its children, so paths are compared component
// by component instead.
func depthFirstLess(a, b string) bool {
	as := strings.Split(a, string(filepath.Separator))
	bs := strings.Split(b, string(filepath.Separator))
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
