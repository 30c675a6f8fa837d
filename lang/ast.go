package lang

import (
	"iter"
	"strings"
	"sync"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/htmldsl/lang/token"
	"github.com/ardnew/htmldsl/log"
)

// Template is a parsed template: an ordered list of top-level elements.
//
// A Template is never modified after parsing and may be shared between
// goroutines.
type Template struct {
	Elements []Element
	opts     optionsKey // configuration options
	logger   log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// Element is one node of a template: a [*Tag], a [*Literal] or an [*Expr].
type Element interface {
	element()
}

// Tag is an element with a name, attributes and children.
//
// Name is never empty. Attribute names may repeat; every occurrence is
// written.
type Tag struct {
	Name     string
	Attrs    []Attr
	Children []Element
	Pos      token.Pos
}

// Attr is one attribute of a [Tag]. Value is nil for a bare attribute, or
// one of [*Literal] and [*Expr].
type Attr struct {
	Name  string
	Value AttrValue
}

// AttrValue is the value of an [Attr]: a [*Literal] or an [*Expr].
type AttrValue interface {
	Element
	attrValue()
}

// Literal is a literal value: text in element content, or an attribute
// value.
//
// Source is the literal as written. Value is its decoded text: the unquoted
// contents of a string or character, the source of a number, or the word
// itself for an identifier-shaped attribute value.
type Literal struct {
	Kind   token.LitKind
	Source string
	Value  string
	Pos    token.Pos
}

// Expr is an opaque expression spliced into the output. Source is the text
// between its parentheses, Tokens its token sequence.
type Expr struct {
	Source string
	Tokens []token.Token
	Pos    token.Pos

	once sync.Once
	prog *vm.Program
	err  error
}

func (*Tag) element() {}
func (*Literal) element() {}
func (*Expr) element() {}

func (*Literal) attrValue() {}
func (*Expr) attrValue() {}

// Attr returns the value of the last attribute of t named name, and whether
// one exists.
func (t *Tag) Attr(name string) (AttrValue, bool) {
	for i := len(t.Attrs) - 1; i >= 0; i-- {
		if t.Attrs[i].Name == name {
			return t.Attrs[i].Value, true
		}
	}

	return nil, false
}

// Classes returns the words of every class attribute of t that has a literal
// value, in order.
func (t *Tag) Classes() []string {
	var out []string

	for _, a := range t.Attrs {
		if lit, ok := a.Value.(*Literal); ok && a.Name == "class" {
			out = append(out, strings.Fields(lit.Value)...)
		}
	}

	return out
}

// All returns an iterator over every element of the template in depth-first
// order, parents before children.
func (tmpl *Template) All() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		walk(tmpl.Elements, yield)
	}
}

func walk(elems []Element, yield func(Element) bool) bool {
	for _, e := range elems {
		if !yield(e) {
			return false
		}

		if t, ok := e.(*Tag); ok && !walk(t.Children, yield) {
			return false
		}
	}

	return true
}

// Tags returns the names of all tags in the template, in depth-first order,
// without duplicates.
func (tmpl *Template) Tags() []string {
	seen := make(map[string]struct{})

	var names []string

	for e := range tmpl.All() {
		t, ok := e.(*Tag)
		if !ok {
			continue
		}

		if _, dup := seen[t.Name]; !dup {
			seen[t.Name] = struct{}{}
			names = append(names, t.Name)
		}
	}

	return names
}

// Exprs returns every expression in the template, including attribute
// values, in depth-first order.
func (tmpl *Template) Exprs() []*Expr {
	var out []*Expr

	for e := range tmpl.All() {
		switch e := e.(type) {
		case *Expr:
			out = append(out, e)
		case *Tag:
			for _, a := range e.Attrs {
				if x, ok := a.Value.(*Expr); ok {
					out = append(out, x)
				}
			}
		}
	}

	return out
}

// DefaultMaxDepth is the default maximum nesting depth of tags.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 256

// optionsKey holds Template configuration options.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	maxDepth     int
	compileExprs bool
}

// Option configures parsing or rendering behavior.
type Option func(*Template)

// WithMaxDepth sets the maximum nesting depth of tags. A depth of zero or
// less disables the limit.
func WithMaxDepth(depth int) Option {
	return func(tmpl *Template) {
		tmpl.opts.maxDepth = depth
	}
}

// WithCompileExprs compiles every expression while parsing, so that
// expression syntax errors are reported by the parse instead of the first
// render.
func WithCompileExprs(compile bool) Option {
	return func(tmpl *Template) {
		tmpl.opts.compileExprs = compile
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(tmpl *Template) {
		tmpl.logger = logger
	}
}

// applyDefaults sets default option values on a Template.
func applyDefaults(tmpl *Template) {
	tmpl.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to a Template.
func applyOptions(tmpl *Template, opts ...Option) {
	for _, opt := range opts {
		opt(tmpl)
	}
}

// isDefault reports whether the options are the defaults.
func (o optionsKey) isDefault() bool {
	return o.maxDepth == DefaultMaxDepth && !o.compileExprs
}
