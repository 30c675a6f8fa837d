package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// session holds the state evaluated against by the REPL: the loaded
// template, if any, and the caller's environment.
type session struct {
	tmpl   *lang.Template
	env    map[string]any
	logger log.Logger
}

// eval renders input as template source. Input that does not parse as a
// template is evaluated as a single expression; if that fails too, the
// template parse error is returned.
func (s *session) eval(ctx context.Context, input string) (string, error) {
	tmpl, parseErr := lang.ParseString(ctx, input, lang.WithLogger(s.logger))
	if parseErr == nil {
		return s.render(ctx, tmpl)
	}

	v, err := lang.Eval(input, s.env)
	if err != nil {
		s.logger.TraceContext(ctx, "repl eval fallback failed",
			slog.Any("parse_error", parseErr),
			slog.Any("eval_error", err),
		)

		return "", parseErr
	}

	return formatResult(v)
}

// show renders the loaded template.
func (s *session) show(ctx context.Context) (string, error) {
	if s.tmpl == nil {
		return "", ErrNoTemplate
	}

	return s.render(ctx, s.tmpl)
}

func (s *session) render(ctx context.Context, tmpl *lang.Template) (string, error) {
	var buf bytes.Buffer

	err := tmpl.Render(ctx, &buf, s.env)

	return buf.String(), err
}

// set binds name to the result of evaluating the expression source.
func (s *session) set(name, source string) error {
	v, err := lang.Eval(source, s.env)
	if err != nil {
		return err
	}

	env := maps.Clone(s.env)
	if env == nil {
		env = map[string]any{}
	}

	env[name] = v
	s.env = env

	return nil
}

// formatResult formats an expression result: markup is rendered, anything
// else is printed in its default format.
func formatResult(v any) (string, error) {
	switch v := v.(type) {
	case html.Content:
		var buf bytes.Buffer

		err := html.NewWriter(&buf).Render(v)

		return buf.String(), err
	case string:
		return fmt.Sprintf("%q", v), nil
	case nil:
		return "nil", nil
	}

	return fmt.Sprintf("%v", v), nil
}

// summary lists the top-level tags of the loaded template and the names in
// the caller's environment.
func (s *session) summary() string {
	var b strings.Builder

	if s.tmpl != nil {
		b.WriteString("template:\n")

		for _, e := range s.tmpl.Elements {
			tag, ok := e.(*lang.Tag)
			if !ok {
				continue
			}

			fmt.Fprintf(&b, "  %s %s\n", tag.Name,
				hintStyle.Render(fmt.Sprintf("%d attrs, %d children",
					len(tag.Attrs), len(tag.Children))))
		}
	}

	keys := sortedKeys(s.env)
	if len(keys) > 0 {
		b.WriteString("env:\n")

		for _, k := range keys {
			fmt.Fprintf(&b, "  %s %s\n", k,
				hintStyle.Render(preview(s.env[k])))
		}
	}

	if b.Len() == 0 {
		return hintStyle.Render("nothing loaded")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func preview(v any) string {
	const limit = 40

	s := fmt.Sprintf("%T", v)

	switch v := v.(type) {
	case string:
		s = fmt.Sprintf("%q", v)
	case map[string]any:
		s = fmt.Sprintf("{ %d keys }", len(v))
	case []any:
		s = fmt.Sprintf("[ %d items ]", len(v))
	case bool, int, int64, uint64, float64:
		s = fmt.Sprint(v)
	}

	if len(s) > limit {
		return s[:limit-3] + "..."
	}

	return s
}
