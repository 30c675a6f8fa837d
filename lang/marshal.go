package lang

import (
	"encoding/json"
	"strings"

	"github.com/ardnew/htmldsl/lang/token"
)

// MarshalJSON implements json.Marshaler for Template.
func (tmpl *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(tmpl.ToNative())
}

// ToNative converts the element tree to plain Go values: a slice with one
// map per element.
//
// A tag is {"tag": name, "attrs": [...], "children": [...]}, with empty
// lists omitted. An attribute is {"name": name} plus "value" or "expr" when
// it has one. Text is {"text": value}, a number {"number": source} and an
// expression {"expr": source}.
func (tmpl *Template) ToNative() []any {
	return toNativeList(tmpl.Elements)
}

func toNativeList(elems []Element) []any {
	out := make([]any, 0, len(elems))

	for _, e := range elems {
		out = append(out, ToNative(e))
	}

	return out
}

// ToNative converts one element to plain Go values.
func ToNative(e Element) map[string]any {
	switch e := e.(type) {
	case *Tag:
		m := map[string]any{"tag": e.Name}

		if len(e.Attrs) > 0 {
			attrs := make([]any, len(e.Attrs))

			for i, a := range e.Attrs {
				am := map[string]any{"name": a.Name}

				switch v := a.Value.(type) {
				case *Literal:
					am["value"] = v.Value
				case *Expr:
					am["expr"] = strings.TrimSpace(v.Source)
				}

				attrs[i] = am
			}

			m["attrs"] = attrs
		}

		if len(e.Children) > 0 {
			m["children"] = toNativeList(e.Children)
		}

		return m

	case *Literal:
		if e.Kind == token.Number {
			return map[string]any{"number": e.Source}
		}

		return map[string]any{"text": e.Value}

	case *Expr:
		return map[string]any{"expr": strings.TrimSpace(e.Source)}
	}

	return nil
}
