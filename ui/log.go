package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logfmt/logfmt"
	"golang.org/x/term"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the lower or upper case level names.
func ParseLevel(s string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return Level(i), nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

var levelStyles = [...]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

func (l Level) style() lipgloss.Style {
	if l >= 0 && int(l) < len(levelStyles) {
		return levelStyles[l]
	}
	return lipgloss.NewStyle()
}

// Logger writes one logfmt record per call. On a terminal the level is
// shown as a colored tag in front of the record instead of a level= pair.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	color bool
	now   func() time.Time
}

func NewLogger(w io.Writer, level Level) *Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Logger{w: w, level: level, color: color, now: time.Now}
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.log(DEBUG, msg, keyvals) }
func (l *Logger) Info(msg string, keyvals ...interface{})  { l.log(INFO, msg, keyvals) }
func (l *Logger) Warn(msg string, keyvals ...interface{})  { l.log(WARN, msg, keyvals) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.log(ERROR, msg, keyvals) }

func (l *Logger) log(level Level, msg string, keyvals []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	var b bytes.Buffer
	if l.color {
		b.WriteString(level.style().Render(fmt.Sprintf("%-5s", strings.ToUpper(level.String()))))
		b.WriteByte(' ')
	}
	enc := logfmt.NewEncoder(&b)
	_ = enc.EncodeKeyval("ts", l.now().Format(time.RFC3339))
	if !l.color {
		_ = enc.EncodeKeyval("level", level.String())
	}
	_ = enc.EncodeKeyval("msg", msg)
	if len(keyvals)%2 == 1 {
		keyvals = append(keyvals, "(MISSING)")
	}
	for i := 0; i < len(keyvals); i += 2 {
		if err := enc.EncodeKeyval(keyvals[i], value(keyvals[i+1])); err != nil {
			_ = enc.EncodeKeyval(fmt.Sprint(keyvals[i]), err.Error())
		}
	}
	_ = enc.EndRecord()
	_, _ = l.w.Write(b.Bytes())
}

// value keeps the types logfmt formats natively and stringifies the rest.
func value(v interface{}) interface{} {
	switch v := v.(type) {
	case nil, string, bool, error, fmt.Stringer,
		int, int64, int32, uint, uint64, float64, float32, time.Duration:
		return v
	default:
		return fmt.Sprint(v)
	}
}

var std atomic.Pointer[Logger]

func init() {
	std.Store(NewLogger(os.Stderr, INFO))
}

// L returns the process wide logger.
func L() *Logger {
	return std.Load()
}

// SetDefault replaces the process wide logger.
func SetDefault(l *Logger) {
	if l != nil {
		std.Store(l)
	}
}
