package html

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrAttrName is the panic value (wrapped) raised when an attribute name
	// does not satisfy [IsValidAttrName].
	ErrAttrName = errors.New("invalid attribute name")

	// ErrState is returned when an operation is not legal in the current
	// state of an [Opening].
	ErrState = errors.New("invalid tag state")
)

// Writer streams markup to an underlying sink.
//
// A Writer and its sink belong to a single render. Every write is forwarded
// to the sink immediately and no output is buffered.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	if hw, ok := w.(*Writer); ok {
		return hw
	}

	return &Writer{w: w}
}

// Write forwards p to the sink unchanged.
func (w *Writer) Write(p []byte) (int, error) { return w.w.Write(p) }

// WriteString forwards s to the sink unchanged.
func (w *Writer) WriteString(s string) (int, error) {
	return io.WriteString(w.w, s)
}

// Raw writes s to the sink unchanged.
func (w *Writer) Raw(s string) error {
	_, err := io.WriteString(w.w, s)

	return err
}

// Text writes s through the text escaper.
func (w *Writer) Text(s string) error {
	_, err := w.TextWriter().WriteString(s)

	return err
}

// TextWriter returns a writer that escapes everything written to it as text
// content before forwarding it to the sink.
func (w *Writer) TextWriter() TextEscaper { return TextEscaper{W: w.w} }

// Render renders each item of cs in order, stopping at the first error.
func (w *Writer) Render(cs ...Content) error {
	return Group(cs).Render(w)
}

// Open writes the start of a tag named name and returns its [Opening], which
// must be closed by the caller, typically with a deferred [Opening.Release].
//
// If the initial write fails nothing is considered open and the returned
// Opening is nil.
func (w *Writer) Open(name string, c Compactability) (*Opening, error) {
	if _, err := io.WriteString(w.w, "<"+name); err != nil {
		return nil, err
	}

	return &Opening{w: w, name: name, compact: c}, nil
}

type state uint8

const (
	stateOpening state = iota
	stateOpen
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateOpening:
		return "opening"
	case stateOpen:
		return "open"
	case stateClosed:
		return "closed"
	}

	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Opening is one tag instance written by a [Writer].
//
// It starts in the opening state, where attributes may be written. It leaves
// that state exactly once: either by [Opening.Content], after which it is open
// for content, or by [Opening.Close] without content, which compacts the tag
// according to its [Compactability].
type Opening struct {
	w       *Writer
	name    string
	compact Compactability
	state   state
}

// Name returns the tag name.
func (o *Opening) Name() string { return o.name }

// Attr writes one attribute.
//
// It panics with an error wrapping [ErrAttrName] if name is not a valid
// attribute name. A [Resolver] is resolved first. If v is nil or unit only
// the name is written.
//
// Once the opening quote of a value has been attempted, the closing quote is
// attempted as well, even after a failure.
func (o *Opening) Attr(name string, v AttrValue) error {
	if !IsValidAttrName(name) {
		panic(fmt.Errorf("%w: %q", ErrAttrName, name))
	}

	if o.state != stateOpening {
		return fmt.Errorf("%w: attribute %q on %s tag <%s>",
			ErrState, name, o.state, o.name)
	}

	if _, err := io.WriteString(o.w.w, " "+name); err != nil {
		return err
	}

	if r, ok := v.(Resolver); ok {
		resolved, err := r.Resolve()
		if err != nil {
			resolved = failedValue{err: err}
		}

		v = resolved
	}

	if v == nil || v.IsUnit() {
		return nil
	}

	_, err := io.WriteString(o.w.w, `="`)
	if err == nil {
		err = v.WriteAttrValue(AttrEscaper{W: o.w.w})
	}

	if _, qerr := io.WriteString(o.w.w, `"`); err == nil {
		err = qerr
	}

	return err
}

// Content ends the start tag and opens the tag for content.
func (o *Opening) Content() error {
	if o.state != stateOpening {
		return fmt.Errorf("%w: content on %s tag <%s>", ErrState, o.state, o.name)
	}

	o.state = stateOpen

	_, err := io.WriteString(o.w.w, ">")

	return err
}

// Close closes the tag. It may be called any number of times, but only the
// first call writes anything.
//
// An open tag gets its end tag. A tag still in its opening state is
// compacted if it is compactable, or immediately given an end tag if not.
func (o *Opening) Close() error {
	prev := o.state
	o.state = stateClosed

	var s string

	switch prev {
	case stateOpen:
		s = "</" + o.name + ">"
	case stateOpening:
		switch {
		case !o.compact.IsCompactable():
			s = "></" + o.name + ">"
		case o.compact.FinalSlash():
			s = "/>"
		default:
			s = ">"
		}
	default:
		return nil
	}

	_, err := io.WriteString(o.w.w, s)

	return err
}

// Release closes the tag and is intended to be deferred immediately after
// a successful [Writer.Open].
//
// If *err is nil the error from closing is stored in it. Otherwise a failure
// is already being returned, the close is best effort, and its error is
// discarded.
func (o *Opening) Release(err *error) {
	if o == nil {
		return
	}

	cerr := o.Close()

	if err != nil && *err == nil {
		*err = cerr
	}
}

// IsValidAttrName reports whether name starts with an ASCII letter and
// continues with ASCII letters, digits, '-' or '_'.
func IsValidAttrName(name string) bool {
	if name == "" {
		return false
	}

	for i := range len(name) {
		c := name[i]

		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '-' || c == '_'):
		default:
			return false
		}
	}

	return true
}
