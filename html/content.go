package html

import (
	"fmt"
	"iter"
)

// Content is anything that can be rendered into a [Writer].
//
// Content values are immutable. Each is rendered by walking it exactly once,
// left to right.
type Content interface {
	Render(w *Writer) error
}

// Unit is implemented by content that can report, before anything is
// written, that it will never produce output.
//
// A tag whose children are unit is eligible for compaction.
type Unit interface {
	IsUnit() bool
}

// IsUnit reports whether c is known to supply no content at all.
//
// This is distinct from content that happens to render zero bytes: Text("")
// is not unit.
func IsUnit(c Content) bool {
	switch c := c.(type) {
	case nil:
		return true
	case Unit:
		return c.IsUnit()
	}

	return false
}

type empty struct{}

// Empty renders nothing and is the only primitive that is always unit.
var Empty Content = empty{}

func (empty) Render(*Writer) error { return nil }
func (empty) IsUnit() bool { return true }
func (empty) String() string { return "Empty" }

// Pair renders Left completely, then Right completely.
// An error from Left aborts before Right is attempted.
type Pair struct {
	Left, Right Content
}

// Render implements [Content].
func (p Pair) Render(w *Writer) error {
	if p.Left != nil {
		if err := p.Left.Render(w); err != nil {
			return err
		}
	}

	if p.Right != nil {
		return p.Right.Render(w)
	}

	return nil
}

// IsUnit reports false. A pair is the result of adding a child, and a tag
// with any child is opened for content, even when the child is unit.
func (Pair) IsUnit() bool { return false }

// Group renders each of its items in order.
// A group is unit when every item is unit, including when it has none.
type Group []Content

// Render implements [Content].
func (g Group) Render(w *Writer) error {
	for _, c := range g {
		if c == nil {
			continue
		}

		if err := c.Render(w); err != nil {
			return err
		}
	}

	return nil
}

// IsUnit implements [Unit].
func (g Group) IsUnit() bool {
	for _, c := range g {
		if !IsUnit(c) {
			return false
		}
	}

	return true
}

// Seq renders the items of a lazy sequence in iteration order.
//
// Emptiness of a sequence cannot be known without consuming it, so a Seq is
// never unit and an enclosing tag is always rendered in its open form.
type Seq iter.Seq[Content]

// Render implements [Content].
func (s Seq) Render(w *Writer) (err error) {
	if s == nil {
		return nil
	}

	for c := range s {
		if c == nil {
			continue
		}

		if err = c.Render(w); err != nil {
			return err
		}
	}

	return nil
}

// Text is content written through the text escaper.
type Text string

// Render implements [Content].
func (t Text) Render(w *Writer) error { return w.Text(string(t)) }

// Textf returns formatted [Text].
func Textf(format string, args ...any) Text {
	return Text(fmt.Sprintf(format, args...))
}

// Raw is markup written to the sink without any escaping.
type Raw string

// Render implements [Content].
func (r Raw) Render(w *Writer) error { return w.Raw(string(r)) }

// Func adapts an ordinary function to [Content].
type Func func(w *Writer) error

// Render implements [Content].
func (f Func) Render(w *Writer) error {
	if f == nil {
		return nil
	}

	return f(w)
}
