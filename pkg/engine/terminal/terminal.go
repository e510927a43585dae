// Package terminal writes the host's console output: levelled log lines and
// the startup banner.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

const logDate = "2006-01-02T15:04:05.000-07:00"

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// GetWidth returns the current terminal width.
// Falls back to DefaultWidth if the width cannot be determined.
func GetWidth() int {
	width, _ := GetSize()
	return width
}

var (
	styleDebug = color.Style{color.FgGray}
	styleInfo  = color.Style{color.FgCyan}
	styleWarn  = color.Style{color.FgYellow, color.OpBold}
	styleError = color.Style{color.FgRed, color.OpBold}
	styleTitle = color.Style{color.FgMagenta, color.OpBold}
)

// Logger writes timestamped, levelled lines. Debug lines are only written
// in verbose mode. Level tags are coloured when the output is a terminal.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	colored bool
	now     func() time.Time
}

// NewLogger creates a logger writing to out.
func NewLogger(out io.Writer, verbose bool) *Logger {
	colored := false
	if f, ok := out.(*os.File); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	return &Logger{out: out, verbose: verbose, colored: colored, now: time.Now}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{out: io.Discard, now: time.Now}
}

// Verbose reports whether debug lines are written.
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) write(style color.Style, tag, format string, args ...any) {
	if l.colored {
		tag = style.Sprint(tag)
	}
	line := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s | %s | %s\n", l.now().Format(logDate), tag, line)
}

// Debugf logs in verbose mode only.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.write(styleDebug, "DEBUG", format, args...)
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) {
	l.write(styleInfo, "INFO ", format, args...)
}

// Warnf logs a recoverable problem.
func (l *Logger) Warnf(format string, args ...any) {
	l.write(styleWarn, "WARN ", format, args...)
}

// Errorf logs a failure.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(styleError, "ERROR", format, args...)
}

// Banner prints a title and key/value lines framed by rules as wide as the
// terminal.
func (l *Logger) Banner(title string, lines ...string) {
	width := min(GetWidth(), 72)
	rule := strings.Repeat("─", width)
	if l.colored {
		title = styleTitle.Sprint(title)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, rule)
	fmt.Fprintln(l.out, title)
	for _, line := range lines {
		fmt.Fprintln(l.out, "  "+line)
	}
	fmt.Fprintln(l.out, rule)
}
