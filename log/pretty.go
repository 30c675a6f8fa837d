package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of pretty output. Styles come from a renderer
// bound to the output writer, so color is only emitted when the writer is a
// terminal that supports it.
type palette struct {
	key     lipgloss.Style
	message lipgloss.Style
	str     lipgloss.Style
	number  lipgloss.Style
	yes     lipgloss.Style
	no      lipgloss.Style
	null    lipgloss.Style
	special lipgloss.Style
	trace   lipgloss.Style
	debug   lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:     fg("8"),
		message: r.NewStyle().Bold(true),
		str:     fg("6"),
		number:  fg("3"),
		yes:     fg("2"),
		no:      fg("1"),
		null:    fg("8"),
		special: fg("5"),
		trace:   fg("8"),
		debug:   fg("4"),
		info:    fg("2"),
		warn:    fg("3"),
		err:     fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

func sourceOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}

	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()

	return f.File + ":" + strconv.Itoa(f.Line)
}

// prettyTextHandler writes one colorized line of unquoted key=value pairs
// per record.
type prettyTextHandler struct {
	opts   *slog.HandlerOptions
	pal    palette
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []byte
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: opts,
		pal:  newPalette(w),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			buf.WriteString(h.pal.key.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}

	if a := h.replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		buf.WriteString(h.pal.level(r.Level).Render(fmt.Sprintf("%-5s", a.Value)))
		buf.WriteByte(' ')
	}

	if h.opts.AddSource {
		if src := sourceOf(r.PC); src != "" {
			buf.WriteString(h.pal.key.Render(src))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.pal.message.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytes.NewBuffer(bytes.Clone(h.attrs))

	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.pal.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.value(a.Value))
}

func (h *prettyTextHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.pal.number.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")

	case slog.KindDuration, slog.KindTime:
		return h.pal.special.Render(v.String())

	case slog.KindAny:
		if v.Any() == nil {
			return h.pal.null.Render("<nil>")
		}

		if err, ok := v.Any().(error); ok {
			return h.pal.no.Render(err.Error())
		}
	}

	return h.pal.str.Render(v.String())
}

// prettyJSONHandler writes each record as indented JSON with colorized keys
// and values. Records are encoded by a [slog.JSONHandler], so the output is
// valid JSON whenever color is disabled.
type prettyJSONHandler struct {
	inner slog.Handler
	buf   *bytes.Buffer
	pal   palette
	mu    *sync.Mutex
	w     io.Writer
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	buf := new(bytes.Buffer)

	return &prettyJSONHandler{
		inner: slog.NewJSONHandler(buf, opts),
		buf:   buf,
		pal:   newPalette(w),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	var indented bytes.Buffer

	if err := json.Indent(&indented, h.buf.Bytes(), "", "  "); err != nil {
		return err
	}

	_, err := h.w.Write(h.colorize(indented.Bytes()))

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}

// colorize styles the keys and scalar values of indented JSON, which holds
// at most one member or element per line.
func (h *prettyJSONHandler) colorize(data []byte) []byte {
	var out bytes.Buffer

	for line := range bytes.Lines(data) {
		body := bytes.TrimRight(line, "\n")
		rest := bytes.TrimLeft(body, " ")
		out.Write(body[:len(body)-len(rest)])

		if n := stringEnd(rest); n > 0 && bytes.HasPrefix(rest[n:], []byte(": ")) {
			out.WriteString(h.pal.key.Render(string(rest[:n])))
			out.WriteString(": ")

			rest = rest[n+2:]
		}

		value, comma := bytes.CutSuffix(rest, []byte(","))
		out.WriteString(h.scalar(value))

		if comma {
			out.WriteByte(',')
		}

		out.WriteByte('\n')
	}

	return out.Bytes()
}

func (h *prettyJSONHandler) scalar(v []byte) string {
	s := string(v)

	switch {
	case s == "" || s == "{" || s == "[" || s == "}" || s == "]" ||
		s == "{}" || s == "[]":
		return s
	case s == "true":
		return h.pal.yes.Render(s)
	case s == "false":
		return h.pal.no.Render(s)
	case s == "null":
		return h.pal.null.Render(s)
	case s[0] == '"':
		return h.pal.str.Render(s)
	default:
		return h.pal.number.Render(s)
	}
}

// stringEnd returns the length of the JSON string literal at the start of b,
// or 0 if b does not start with a complete one.
func stringEnd(b []byte) int {
	if len(b) == 0 || b[0] != '"' {
		return 0
	}

	for i := 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}

	return 0
}
