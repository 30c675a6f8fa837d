package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/htmldsl/lang/token"
)

// Format writes the template in canonical template syntax.
//
// With indent zero the whole template is written on one line. Otherwise each
// element starts its own line, nested indent spaces deeper than its parent,
// and a tag whose only child is text or an expression stays on one line.
// The output parses to a template equal to tmpl.
func (tmpl *Template) Format(_ context.Context, w io.Writer, indent int) error {
	f := formatter{w: w, indent: indent}

	for i, e := range tmpl.Elements {
		if i > 0 {
			f.sep(0)
		}

		f.element(e, 0)
	}

	f.print("\n")

	return f.err
}

// FormatJSON writes the element tree as JSON.
func (tmpl *Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(tmpl, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(tmpl)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the element tree as YAML.
func (tmpl *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, tmpl.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatter writes template syntax, keeping the first write error.
type formatter struct {
	w      io.Writer
	indent int
	err    error
}

func (f *formatter) print(s ...string) {
	for _, part := range s {
		if f.err != nil {
			return
		}

		_, f.err = io.WriteString(f.w, part)
	}
}

// sep separates two sibling elements at depth.
func (f *formatter) sep(depth int) {
	if f.indent == 0 {
		f.print(" ")

		return
	}

	f.print("\n", strings.Repeat(" ", depth*f.indent))
}

func (f *formatter) element(e Element, depth int) {
	switch e := e.(type) {
	case *Tag:
		f.tag(e, depth)
	case *Literal:
		f.print(FormatLiteral(e))
	case *Expr:
		f.print("(", exprSource(e), ")")
	}
}

func (f *formatter) tag(t *Tag, depth int) {
	f.print(t.Name)

	for _, a := range t.Attrs {
		f.print(" ", a.Name)

		switch v := a.Value.(type) {
		case *Literal:
			f.print("=", FormatLiteral(v))
		case *Expr:
			f.print("=(", exprSource(v), ")")
		}
	}

	switch {
	case len(t.Children) == 0:
		f.print(";")

	case f.indent == 0 || inline(t.Children):
		f.print(" {")

		for _, c := range t.Children {
			f.print(" ")
			f.element(c, depth+1)
		}

		f.print(" }")

	default:
		f.print(" {")

		for _, c := range t.Children {
			f.sep(depth + 1)
			f.element(c, depth+1)
		}

		f.sep(depth)
		f.print("}")
	}
}

// exprSource returns the source of x without surrounding space. A line
// comment inside the expression keeps a trailing newline so that it does not
// run into the closing parenthesis.
func exprSource(x *Expr) string {
	s := strings.TrimSpace(x.Source)
	if strings.Contains(s, "//") {
		s += "\n"
	}

	return s
}

// inline reports whether children fit on the line of their parent.
func inline(children []Element) bool {
	if len(children) != 1 {
		return false
	}

	_, isTag := children[0].(*Tag)

	return !isTag
}

// FormatLiteral returns the template syntax of a literal. Strings, including
// identifier-shaped attribute values, are always double-quoted.
func FormatLiteral(l *Literal) string {
	switch l.Kind {
	case token.Number:
		return l.Source
	case token.Char:
		return "'" + escapeLiteral(l.Value, '\'') + "'"
	default:
		return `"` + escapeLiteral(l.Value, '"') + `"`
	}
}

func escapeLiteral(s string, quote rune) string {
	var sb strings.Builder

	for _, r := range s {
		switch r {
		case quote, '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if unicode.IsPrint(r) || r == ' ' {
				sb.WriteRune(r)
			} else {
				sb.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
			}
		}
	}

	return sb.String()
}
