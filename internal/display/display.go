// Package display renders search results and diagnostics to the
// terminal. Color is used only when stdout is a TTY and NO_COLOR is
// unset; otherwise output degrades to plain text suitable for piping.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/cumulus13/fsearch/internal/search"
)

// Renderer writes formatted search output to a writer.
type Renderer struct {
	w     io.Writer
	color bool

	index *color.Color
	path  *color.Color
	line  *color.Color
	text  *color.Color
	found *color.Color
	count *color.Color
}

// NewRenderer creates a Renderer for w. Color is enabled automatically
// when w is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		w:     w,
		color: isTerminalWriter(w) && !color.NoColor,
		index: color.New(color.FgHiMagenta, color.Bold),
		path:  color.New(color.FgHiYellow, color.Bold),
		line:  color.New(color.FgWhite, color.BgRed),
		text:  color.New(color.FgCyan),
		found: color.New(color.FgWhite, color.BgRed, color.Bold),
		count: color.New(color.FgBlack, color.BgHiCyan),
	}
}

// isTerminalWriter reports whether w is an interactive terminal.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) sprint(c *color.Color, s string) string {
	if r.color {
		return c.Sprint(s)
	}
	return s
}

// Results prints the numbered match listing. Content matches show their
// line numbers and text under the file path, mirroring the traversal
// order of the results.
func (r *Renderer) Results(results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintf(r.w, "\nNo results found\n\n")
		return
	}

	fmt.Fprintf(r.w, "\n%s %s\n\n",
		r.sprint(r.found, "FOUND:"),
		r.sprint(r.count, fmt.Sprintf(" %d ", len(results))))

	width := len(fmt.Sprintf("%d", len(results)))
	for i, res := range results {
		idx := fmt.Sprintf("%0*d", width, i+1)
		fmt.Fprintf(r.w, "%s. %s\n", r.sprint(r.index, idx), r.sprint(r.path, res.Path))

		for _, lm := range res.Lines {
			marker := ""
			if lm.Truncated {
				marker = " [truncated]"
			}
			fmt.Fprintf(r.w, "  %s %s%s\n",
				r.sprint(r.line, fmt.Sprintf(" %d ", lm.Number)),
				r.sprint(r.text, lm.Text),
				marker)
		}
	}
}

// Diagnostics prints the verbose per-run summary.
func (r *Renderer) Diagnostics(d *search.Diagnostics) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nrun %s finished in %s\n", d.RunID, d.Duration.Round(time.Microsecond))
	fmt.Fprintf(&b, "  entries visited:       %d\n", d.EntriesVisited)
	fmt.Fprintf(&b, "  files scanned:         %d (%s)\n", d.FilesScanned, humanize.Bytes(uint64(d.BytesScanned)))
	fmt.Fprintf(&b, "  matches:               %d\n", d.Matches)
	fmt.Fprintf(&b, "  binary files skipped:  %d\n", d.BinarySkipped)
	fmt.Fprintf(&b, "  access errors:         %d\n", d.AccessErrors)
	fmt.Fprintf(&b, "  truncated lines:       %d\n", d.TruncatedLines)
	fmt.Fprintf(&b, "  decode substitutions:  %d\n", d.DecodeSubstitutions)
	fmt.Fprint(r.w, b.String())

	for _, err := range d.Errors {
		fmt.Fprintf(r.w, "  skipped: %v\n", err)
	}
}
