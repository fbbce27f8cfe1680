package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// DiffGroupName brackets the log lines of one CI run.
const DiffGroupName = "changed-files-diff-sha"

// lineHandler renders records as single lines of "msg key=value ...".
type lineHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  string
	prefix string
}

func newLineHandler(out io.Writer, level slog.Leveler) lineHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return lineHandler{mu: &sync.Mutex{}, out: out, level: level}
}

func (h lineHandler) enabled(level slog.Level) bool {
	return level >= h.level.Level()
}

func (h lineHandler) withAttrs(attrs []slog.Attr) lineHandler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h.attrs = b.String()
	return h
}

func (h lineHandler) withGroup(name string) lineHandler {
	if name != "" {
		h.prefix += name + "."
	}
	return h
}

func (h lineHandler) line(record slog.Record) string {
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	return b.String()
}

func (h lineHandler) write(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, s)
	return err
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, groupPrefix, ga)
		}
		return
	}

	value := a.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\"=") {
		value = strconv.Quote(value)
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(value)
}

// WorkflowHandler is an [slog.Handler] that renders records as GitHub
// Actions workflow commands. Info records are written as plain lines.
type WorkflowHandler struct {
	h lineHandler
}

// NewWorkflowHandler creates a workflow command handler writing to out.
func NewWorkflowHandler(out io.Writer, level slog.Leveler) *WorkflowHandler {
	return &WorkflowHandler{h: newLineHandler(out, level)}
}

// Enabled reports whether the level passes the handler's minimum.
func (wh *WorkflowHandler) Enabled(_ context.Context, level slog.Level) bool {
	return wh.h.enabled(level)
}

// Handle writes one workflow command line.
func (wh *WorkflowHandler) Handle(_ context.Context, record slog.Record) error {
	line := wh.h.line(record)

	var command string
	switch {
	case record.Level >= slog.LevelError:
		command = "error"
	case record.Level >= slog.LevelWarn:
		command = "warning"
	case record.Level < slog.LevelInfo:
		command = "debug"
	}

	if command == "" {
		return wh.h.write(line + "\n")
	}
	if err := wh.h.write("::" + command + "::" + escapeWorkflowData(line) + "\n"); err != nil {
		return fmt.Errorf("workflow handler: %w", err)
	}
	return nil
}

// WithAttrs returns a new WorkflowHandler with additional attributes.
func (wh *WorkflowHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &WorkflowHandler{h: wh.h.withAttrs(attrs)}
}

// WithGroup returns a new WorkflowHandler qualifying later attribute keys.
func (wh *WorkflowHandler) WithGroup(name string) slog.Handler {
	return &WorkflowHandler{h: wh.h.withGroup(name)}
}

func escapeWorkflowData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

// ConsoleHandler is an [slog.Handler] that writes records with colourised
// level prefixes.
type ConsoleHandler struct {
	h lineHandler
}

// NewConsoleHandler creates a console handler writing to out.
func NewConsoleHandler(out io.Writer, level slog.Leveler) *ConsoleHandler {
	return &ConsoleHandler{h: newLineHandler(out, level)}
}

// Enabled reports whether the level passes the handler's minimum.
func (ch *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return ch.h.enabled(level)
}

// Handle writes one prefixed line.
func (ch *ConsoleHandler) Handle(_ context.Context, record slog.Record) error {
	var prefix string
	switch {
	case record.Level >= slog.LevelError:
		prefix = color.RedString("error: ")
	case record.Level >= slog.LevelWarn:
		prefix = color.YellowString("warning: ")
	case record.Level < slog.LevelInfo:
		prefix = color.HiBlackString("debug: ")
	}
	if err := ch.h.write(prefix + ch.h.line(record) + "\n"); err != nil {
		return fmt.Errorf("console handler: %w", err)
	}
	return nil
}

// WithAttrs returns a new ConsoleHandler with additional attributes.
func (ch *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConsoleHandler{h: ch.h.withAttrs(attrs)}
}

// WithGroup returns a new ConsoleHandler qualifying later attribute keys.
func (ch *ConsoleHandler) WithGroup(name string) slog.Handler {
	return &ConsoleHandler{h: ch.h.withGroup(name)}
}

// NewLogger picks the handler for the output format. Workflow debug
// commands are always emitted; the runner filters them.
func NewLogger(format OutputFormat, verbose bool, out io.Writer) *slog.Logger {
	if format == FormatCI {
		return slog.New(NewWorkflowHandler(out, slog.LevelDebug))
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewConsoleHandler(out, level))
}

// StartGroup opens a collapsible log group.
func StartGroup(out io.Writer, name string) {
	fmt.Fprintf(out, "::group::%s\n", name)
}

// EndGroup closes the current log group.
func EndGroup(out io.Writer) {
	fmt.Fprintln(out, "::endgroup::")
}
