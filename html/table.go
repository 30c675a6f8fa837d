package html

import (
	"strconv"

	"golang.org/x/net/html/atom"
)

// Compactability describes how a tag with no content is closed.
//
// The zero value is [NonCompactable].
type Compactability struct {
	compact    bool
	finalSlash bool
}

// NonCompactable tags are always written as <name></name> when empty.
var NonCompactable = Compactability{}

// Compactable returns the compactability of a tag that is written as a single
// start tag when empty, <name/> if finalSlash and <name> otherwise.
func Compactable(finalSlash bool) Compactability {
	return Compactability{compact: true, finalSlash: finalSlash}
}

// CompactableIf converts a flag into a [Compactability]: true is
// Compactable(true), false is [NonCompactable].
func CompactableIf(b bool) Compactability {
	if b {
		return Compactable(true)
	}

	return NonCompactable
}

// IsCompactable reports whether an empty tag is collapsed to its start tag.
func (c Compactability) IsCompactable() bool { return c.compact }

// FinalSlash reports whether a collapsed tag ends with "/>".
func (c Compactability) FinalSlash() bool { return c.compact && c.finalSlash }

func (c Compactability) String() string {
	if !c.compact {
		return "NonCompactable"
	}

	return "Compactable(" + strconv.FormatBool(c.finalSlash) + ")"
}

// void lists the elements that never have content.
var void = map[atom.Atom]struct{}{
	atom.Area:   {},
	atom.Base:   {},
	atom.Br:     {},
	atom.Col:    {},
	atom.Embed:  {},
	atom.Hr:     {},
	atom.Img:    {},
	atom.Input:  {},
	atom.Link:   {},
	atom.Meta:   {},
	atom.Param:  {},
	atom.Source: {},
	atom.Track:  {},
	atom.Wbr:    {},
}

// CompactabilityOf returns the fixed compactability of the element kind
// name: Compactable(false) for void elements, NonCompactable otherwise.
func CompactabilityOf(name string) Compactability {
	if _, ok := void[atom.Lookup([]byte(name))]; ok {
		return Compactable(false)
	}

	return NonCompactable
}

// IsVoid reports whether name is a void element.
func IsVoid(name string) bool { return CompactabilityOf(name).IsCompactable() }

// IsKnown reports whether name is a name known to the HTML5 specification,
// either an element or an attribute.
func IsKnown(name string) bool { return atom.Lookup([]byte(name)) != 0 }

// elements holds the HTML5 element names offered to completion.
var elements = []string{
	"a", "abbr", "address", "area", "article", "aside", "audio",
	"b", "base", "bdi", "bdo", "blockquote", "body", "br", "button",
	"canvas", "caption", "cite", "code", "col", "colgroup",
	"data", "datalist", "dd", "del", "details", "dfn", "dialog", "div", "dl",
	"dt", "em", "embed", "fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "hr",
	"html", "i", "iframe", "img", "input", "ins", "kbd", "label", "legend",
	"li", "link", "main", "map", "mark", "menu", "meta", "meter", "nav",
	"noscript", "object", "ol", "optgroup", "option", "output", "p", "param",
	"picture", "pre", "progress", "q", "rp", "rt", "ruby", "s", "samp",
	"script", "search", "section", "select", "slot", "small", "source", "span",
	"strong", "style", "sub", "summary", "sup", "table", "tbody", "td",
	"template", "textarea", "tfoot", "th", "thead", "time", "title", "tr",
	"track", "u", "ul", "var", "video", "wbr",
}

// Elements returns the HTML5 element names in lexical order.
func Elements() []string {
	out := make([]string, len(elements))
	copy(out, elements)

	return out
}
