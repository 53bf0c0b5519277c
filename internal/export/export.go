// Package export renders a completed result set to text, CSV, or HTML.
// HTML output is produced by building a Markdown report and converting
// it with goldmark. File writes go through filelock so concurrent runs
// never interleave into the same report.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/cumulus13/fsearch/internal/filelock"
	"github.com/cumulus13/fsearch/internal/search"
)

// Format is an export output format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat validates and normalizes a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, csv, html", s)
	}
}

// Meta describes the search a report was generated from.
type Meta struct {
	Pattern     string
	BasePath    string
	ContentMode bool
	GeneratedAt time.Time
}

// Render serializes results in the requested format.
func Render(results []search.Result, meta Meta, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return renderText(results, meta), nil
	case FormatCSV:
		return renderCSV(results)
	case FormatHTML:
		return renderHTML(results, meta)
	default:
		return nil, fmt.Errorf("invalid format %q", string(format))
	}
}

// WriteFile writes a rendered report to path under a lock, atomically.
func WriteFile(path string, data []byte) error {
	return filelock.WriteLocked(path, data)
}

func renderText(results []search.Result, meta Meta) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "fsearch results for %q in %s\n", meta.Pattern, meta.BasePath)
	fmt.Fprintf(&b, "generated: %s\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "matches: %d\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Path)
		for _, lm := range r.Lines {
			fmt.Fprintf(&b, "   %d: %s\n", lm.Number, lm.Text)
		}
	}
	return b.Bytes()
}

func renderCSV(results []search.Result) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"index", "path", "line_number", "line_text"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range results {
		if len(r.Lines) == 0 {
			if err := w.Write([]string{strconv.Itoa(i + 1), r.Path, "", ""}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			continue
		}
		for _, lm := range r.Lines {
			row := []string{strconv.Itoa(i + 1), r.Path, strconv.Itoa(lm.Number), lm.Text}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return b.Bytes(), nil
}

func renderHTML(results []search.Result, meta Meta) ([]byte, error) {
	md := renderMarkdown(results, meta)

	var body bytes.Buffer
	if err := goldmark.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>fsearch: %s</title>\n", htmlEscape(meta.Pattern))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func renderMarkdown(results []search.Result, meta Meta) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# fsearch results\n\n")
	fmt.Fprintf(&b, "- **Pattern:** `%s`\n", meta.Pattern)
	fmt.Fprintf(&b, "- **Path:** `%s`\n", meta.BasePath)
	if meta.ContentMode {
		fmt.Fprintf(&b, "- **Mode:** content search\n")
	} else {
		fmt.Fprintf(&b, "- **Mode:** name search\n")
	}
	fmt.Fprintf(&b, "- **Generated:** %s\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Matches:** %d\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, r.Path)
		for _, lm := range r.Lines {
			fmt.Fprintf(&b, "    - line %d: `%s`\n", lm.Number, strings.ReplaceAll(lm.Text, "`", "'"))
		}
	}
	return b.Bytes()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
