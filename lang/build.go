package lang

import (
	"context"
	"io"
	"log/slog"
	"unicode"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/log"
)

// IsIdent reports whether name is a plain identifier: non-empty, made of
// letters, digits and underscores, and not starting with a digit.
//
// Tags with plain identifier names use the element table to decide
// compactability. All other tag names are custom elements, which are never
// compacted.
func IsIdent(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}

// Build converts the template into content that renders it against env.
//
// The top-level elements become children of an [html.Fragment]. Tags are
// built in source order: attributes first, then children. Expressions are
// compiled here but only evaluated when the content is rendered, each time
// it is rendered. The content holds no render state and may be rendered
// repeatedly or from several goroutines.
func (tmpl *Template) Build(
	ctx context.Context,
	env map[string]any,
) (html.Content, error) {
	items, err := tmpl.build(ctx, env)
	if err != nil {
		return nil, err
	}

	return html.Fragment(items...), nil
}

// Render builds the template and renders it to w.
//
// The context is checked before each top-level element. Every tag opened
// before a failure is closed in the output.
func (tmpl *Template) Render(
	ctx context.Context,
	w io.Writer,
	env map[string]any,
) error {
	items, err := tmpl.build(ctx, env)
	if err != nil {
		return err
	}

	hw := html.NewWriter(w)

	for i, c := range items {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		if err := hw.Render(c); err != nil {
			tmpl.logger.TraceContext(
				ctx,
				"render failed",
				slog.Int("element", i),
				slog.Any("error", err),
			)

			return err
		}
	}

	tmpl.logger.TraceContext(
		ctx,
		"render complete",
		slog.Int("element_count", len(items)),
	)

	return nil
}

func (tmpl *Template) build(
	ctx context.Context,
	env map[string]any,
) ([]html.Content, error) {
	b := builder{ctx: ctx, env: runtimeEnv(env), logger: tmpl.logger}

	items := make([]html.Content, 0, len(tmpl.Elements))

	for _, e := range tmpl.Elements {
		c, err := b.element(e)
		if err != nil {
			return nil, err
		}

		items = append(items, c)
	}

	tmpl.logger.TraceContext(
		ctx,
		"build complete",
		slog.Int("element_count", len(items)),
		slog.Int("env_size", len(env)),
	)

	return items, nil
}

// builder converts elements to content.
type builder struct {
	ctx    context.Context //nolint:containedctx
	env    map[string]any
	logger log.Logger
}

func (b *builder) element(e Element) (html.Content, error) {
	switch e := e.(type) {
	case *Literal:
		return html.Text(e.Value), nil

	case *Expr:
		if _, err := e.program(); err != nil {
			return nil, err
		}

		return &exprContent{ctx: b.ctx, x: e, env: b.env, logger: b.logger}, nil

	case *Tag:
		return b.tag(e)
	}

	return nil, ErrInvalidValueType.
		With(slog.String("type", resultTypeName(e)))
}

func (b *builder) tag(t *Tag) (html.Content, error) {
	var tag html.Tag

	if IsIdent(t.Name) {
		tag = html.El(t.Name)
	} else {
		tag = html.Custom(t.Name)
	}

	for _, a := range t.Attrs {
		if !html.IsValidAttrName(a.Name) {
			return nil, ErrAttrName.With(
				slog.String("attr", a.Name),
				slog.String("tag", t.Name),
				slog.String("pos", t.Pos.String()),
			)
		}

		v, err := b.attrValue(a.Value)
		if err != nil {
			return nil, err
		}

		tag = tag.Attr(a.Name, v)
	}

	for _, child := range t.Children {
		c, err := b.element(child)
		if err != nil {
			return nil, err
		}

		tag = tag.Child(c)
	}

	return tag, nil
}

func (b *builder) attrValue(v AttrValue) (html.AttrValue, error) {
	switch v := v.(type) {
	case nil:
		return html.NoValue, nil

	case *Literal:
		return html.Value(v.Value), nil

	case *Expr:
		if _, err := v.program(); err != nil {
			return nil, err
		}

		return &exprAttr{x: v, env: b.env}, nil
	}

	return nil, ErrInvalidValueType.
		With(slog.String("type", resultTypeName(v)))
}
