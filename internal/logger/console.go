// Package logger provides the leveled console logger used for fsearch
// diagnostics. Output is timestamped, optionally colorized, and safe for
// concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Console writes leveled, timestamped messages to a writer. Messages
// below the configured level are dropped. A nil writer discards
// everything.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	level int
	color bool
}

// New creates a Console logger. level is one of trace, debug, info,
// warn, error (case-insensitive); anything else falls back to warn so a
// search never gets chatty by accident. Color is enabled only when the
// writer is a terminal, following the color package's own detection.
func New(w io.Writer, level string) *Console {
	return &Console{
		w:     w,
		level: parseLevel(level),
		color: (w == os.Stdout || w == os.Stderr) && !color.NoColor,
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

var levelColors = map[string]*color.Color{
	"TRACE": color.New(color.FgHiBlack),
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
}

func (c *Console) log(level int, tag, format string, args ...any) {
	if c == nil || c.w == nil || level < c.level {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := time.Now().Format("15:04:05")
	label := tag
	if c.color {
		if cc, ok := levelColors[tag]; ok {
			label = cc.Sprint(tag)
		}
	}
	fmt.Fprintf(c.w, "[%s] [%s] %s\n", stamp, label, fmt.Sprintf(format, args...))
}

// Tracef logs at trace level.
func (c *Console) Tracef(format string, args ...any) { c.log(levelTrace, "TRACE", format, args...) }

// Debugf logs at debug level.
func (c *Console) Debugf(format string, args ...any) { c.log(levelDebug, "DEBUG", format, args...) }

// Infof logs at info level.
func (c *Console) Infof(format string, args ...any) { c.log(levelInfo, "INFO", format, args...) }

// Warnf logs at warn level.
func (c *Console) Warnf(format string, args ...any) { c.log(levelWarn, "WARN", format, args...) }

// Errorf logs at error level.
func (c *Console) Errorf(format string, args ...any) { c.log(levelError, "ERROR", format, args...) }
