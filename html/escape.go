package html

import (
	"io"
	"unicode/utf8"
)

// LineBreak is written by [TextEscaper] in place of every newline.
const LineBreak = "<br>"

// escapeFunc returns the replacement for r, or "" if r is passed through.
type escapeFunc func(r rune) string

// AttrEscaper escapes everything written to it for use inside a double-quoted
// attribute value and forwards the result to W.
//
// Quotes and backslashes are backslash-escaped, and CR, LF and TAB are
// replaced by \r, \n and \t respectively. Nothing else is changed.
type AttrEscaper struct {
	W io.Writer
}

// Write implements [io.Writer].
func (e AttrEscaper) Write(p []byte) (int, error) {
	return stream(e.W, p, attrEscape)
}

// WriteString implements [io.StringWriter].
func (e AttrEscaper) WriteString(s string) (int, error) {
	return stream(e.W, []byte(s), attrEscape)
}

func attrEscape(r rune) string {
	switch r {
	case '"':
		return `\"`
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	case '\r':
		return `\r`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	}

	return ""
}

// TextEscaper escapes everything written to it for use as element content and
// forwards the result to W.
//
// The characters <, > and & become entity references, and every newline is
// replaced by [LineBreak]. Nothing else is changed.
type TextEscaper struct {
	W io.Writer
}

// Write implements [io.Writer].
func (e TextEscaper) Write(p []byte) (int, error) {
	return stream(e.W, p, textEscape)
}

// WriteString implements [io.StringWriter].
func (e TextEscaper) WriteString(s string) (int, error) {
	return stream(e.W, []byte(s), textEscape)
}

func textEscape(r rune) string {
	switch r {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '&':
		return "&amp;"
	case '\n':
		return LineBreak
	}

	return ""
}

// stream forwards p to w, substituting each rune that esc replaces.
// Runs of unchanged input are forwarded with a single write.
//
// The returned count is the number of bytes of p consumed, not the number of
// bytes written to w, so that callers such as [io.Copy] see a conforming
// [io.Writer].
func stream(w io.Writer, p []byte, esc escapeFunc) (int, error) {
	start := 0

	for i := 0; i < len(p); {
		r, size := utf8.DecodeRune(p[i:])

		rep := esc(r)
		if rep == "" {
			i += size

			continue
		}

		if start < i {
			if _, err := w.Write(p[start:i]); err != nil {
				return start, err
			}
		}

		if _, err := io.WriteString(w, rep); err != nil {
			return i, err
		}

		i += size
		start = i
	}

	if start < len(p) {
		if _, err := w.Write(p[start:]); err != nil {
			return start, err
		}
	}

	return len(p), nil
}
