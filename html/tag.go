package html

import (
	"io"
	"slices"
	"strings"
)

// AttrValue is the value of an attribute.
//
// WriteAttrValue receives a writer that already applies attribute escaping.
type AttrValue interface {
	IsUnit() bool
	WriteAttrValue(w io.Writer) error
}

// Resolver is an attribute value computed each time it is written.
// [Opening.Attr] calls Resolve once per write and writes the result in its
// place. A Resolve error is returned after an empty quoted value is written.
type Resolver interface {
	AttrValue
	Resolve() (AttrValue, error)
}

// failedValue writes nothing and reports err.
type failedValue struct{ err error }

func (failedValue) IsUnit() bool { return false }
func (f failedValue) WriteAttrValue(io.Writer) error { return f.err }

type noValue struct{}

// NoValue marks a bare attribute, which is written as its name only.
var NoValue AttrValue = noValue{}

func (noValue) IsUnit() bool { return true }
func (noValue) WriteAttrValue(io.Writer) error { return nil }

// Value is a literal attribute value.
type Value string

// IsUnit implements [AttrValue]. A literal value, even an empty one, is
// always written.
func (Value) IsUnit() bool { return false }

// WriteAttrValue implements [AttrValue].
func (v Value) WriteAttrValue(w io.Writer) error {
	_, err := io.WriteString(w, string(v))

	return err
}

type attr struct {
	name  string
	value AttrValue
}

// Tag builds one element.
//
// Tag has value semantics: each builder method returns a modified copy and
// never changes the receiver, so a partially built Tag may be shared and
// extended independently.
type Tag struct {
	name    string
	compact Compactability
	attrs   []attr
	body    Content
	silent  bool
}

// El returns a tag named name whose compactability is taken from the void
// element table.
func El(name string) Tag {
	return Tag{name: name, compact: CompactabilityOf(name), body: Empty}
}

// Custom returns a tag named name that is never compacted.
func Custom(name string) Tag {
	return Tag{name: name, compact: NonCompactable, body: Empty}
}

// Fragment returns a container that writes no tag of its own, only its
// children. Attributes added to a fragment are ignored.
func Fragment(children ...Content) Tag {
	t := Tag{silent: true, body: Empty}

	for _, c := range children {
		t = t.Child(c)
	}

	return t
}

// Name returns the tag name, or "" for a fragment.
func (t Tag) Name() string { return t.name }

// Compactability returns how the tag is closed when it has no content.
func (t Tag) Compactability() Compactability { return t.compact }

// WithCompactability returns a copy of t using c.
func (t Tag) WithCompactability(c Compactability) Tag {
	t.compact = c

	return t
}

// Attr returns a copy of t with one more attribute. A nil value is treated as
// [NoValue].
func (t Tag) Attr(name string, v AttrValue) Tag {
	if v == nil {
		v = NoValue
	}

	t.attrs = append(slices.Clip(t.attrs), attr{name: name, value: v})

	return t
}

// Class is shorthand for Attr("class", Value(class)).
func (t Tag) Class(class ...string) Tag {
	return t.Attr("class", Value(strings.Join(class, " ")))
}

// ID is shorthand for Attr("id", Value(id)).
func (t Tag) ID(id string) Tag { return t.Attr("id", Value(id)) }

// Child returns a copy of t with c appended to its children.
func (t Tag) Child(c Content) Tag {
	if c == nil {
		c = Empty
	}

	if t.body == nil {
		t.body = Empty
	}

	t.body = Pair{Left: t.body, Right: c}

	return t
}

// Children returns a copy of t with each of cs appended to its children.
func (t Tag) Children(cs ...Content) Tag {
	for _, c := range cs {
		t = t.Child(c)
	}

	return t
}

// IsUnit reports whether t renders nothing at all, which is only the case for
// a fragment without content.
func (t Tag) IsUnit() bool { return t.silent && IsUnit(t.body) }

// Render implements [Content].
//
// A tag without content never enters the open state, so it is compacted or
// closed immediately according to its compactability. Once opened, the tag
// is closed on every return path.
func (t Tag) Render(w *Writer) (err error) {
	if t.silent {
		if IsUnit(t.body) {
			return nil
		}

		return t.body.Render(w)
	}

	op, err := w.Open(t.name, t.compact)
	if err != nil {
		return err
	}

	defer op.Release(&err)

	for _, a := range t.attrs {
		if err = op.Attr(a.name, a.value); err != nil {
			return err
		}
	}

	if IsUnit(t.body) {
		return nil
	}

	if err = op.Content(); err != nil {
		return err
	}

	return t.body.Render(w)
}
