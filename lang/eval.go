package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/log"
)

// program returns the compiled program of x, compiling it on first use.
// A blank expression has no program.
func (x *Expr) program() (*vm.Program, error) {
	x.once.Do(func() {
		x.prog, x.err = compile(x.Source)
	})

	return x.prog, x.err
}

func compile(source string) (*vm.Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	prog, err := expr.Compile(source)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return prog, nil
}

// run evaluates prog against env. A nil program evaluates to nil.
func run(prog *vm.Program, source string, env map[string]any) (any, error) {
	if prog == nil {
		return nil, nil
	}

	result, err := vm.Run(prog, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return result, nil
}

// spliced caches expressions evaluated through [Eval], [Splice] and
// [SpliceAttr], keyed by source.
var spliced sync.Map

func cachedExpr(source string) *Expr {
	v, ok := spliced.Load(source)
	if !ok {
		v, _ = spliced.LoadOrStore(source, &Expr{Source: source})
	}

	x, _ := v.(*Expr)

	return x
}

// Eval evaluates the expression source against env, layered over the
// builtin environment.
func Eval(source string, env map[string]any) (any, error) {
	x := cachedExpr(source)

	prog, err := x.program()
	if err != nil {
		return nil, err
	}

	return run(prog, source, runtimeEnv(env))
}

// Splice returns content that evaluates the expression source against env
// each time it is rendered. Compilation and evaluation errors are returned
// by Render.
func Splice(source string, env map[string]any) html.Content {
	return &exprContent{x: cachedExpr(source), env: runtimeEnv(env)}
}

// SpliceAttr returns an attribute value that evaluates the expression
// source against env when it is written.
func SpliceAttr(source string, env map[string]any) html.AttrValue {
	return &exprAttr{x: cachedExpr(source), env: runtimeEnv(env)}
}

// Embed returns content that converts v with [ToContent] when rendered.
// It splices plain Go values the way expression results are spliced.
func Embed(v any) html.Content {
	return html.Func(func(w *html.Writer) error {
		c, err := ToContent(v)
		if err != nil {
			return err
		}

		return c.Render(w)
	})
}

// EmbedAttr returns v as an attribute value: nil is [html.NoValue], a string
// is used as is, anything else is written in its default format.
func EmbedAttr(v any) html.AttrValue {
	switch v := v.(type) {
	case nil:
		return html.NoValue
	case html.AttrValue:
		return v
	case string:
		return html.Value(v)
	default:
		return html.Value(fmt.Sprint(v))
	}
}

// ToContent converts the result of an expression to content.
//
// Content is used as is. Strings and other scalars become escaped text.
// Slices and arrays become a group of their converted items. Nil becomes
// [html.Empty]. Any other value is an error wrapping [ErrInvalidValueType].
func ToContent(v any) (html.Content, error) {
	switch v := v.(type) {
	case nil:
		return html.Empty, nil
	case html.Content:
		return v, nil
	case string:
		return html.Text(v), nil
	case []byte:
		return html.Text(v), nil
	case fmt.Stringer:
		return html.Text(v.String()), nil
	case []any:
		return toGroup(len(v), func(i int) any { return v[i] })
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return html.Text(fmt.Sprint(v)), nil

	case reflect.Slice, reflect.Array:
		return toGroup(rv.Len(), func(i int) any { return rv.Index(i).Interface() })

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return html.Empty, nil
		}

		return ToContent(rv.Elem().Interface())
	}

	return nil, ErrInvalidValueType.
		With(slog.String("type", resultTypeName(v)))
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}

func toGroup(n int, at func(int) any) (html.Content, error) {
	group := make(html.Group, n)

	for i := range n {
		c, err := ToContent(at(i))
		if err != nil {
			return nil, err
		}

		group[i] = c
	}

	return group, nil
}

// exprContent is an expression spliced into element content.
//
// Its result is unknown until it is rendered, so it is never unit and an
// enclosing tag is always written in its open form.
type exprContent struct {
	ctx    context.Context //nolint:containedctx
	x      *Expr
	env    map[string]any
	logger log.Logger
}

// Render implements [html.Content].
func (c *exprContent) Render(w *html.Writer) error {
	prog, err := c.x.program()
	if err != nil {
		return err
	}

	result, err := run(prog, c.x.Source, c.env)
	if err != nil {
		return err
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	c.logger.TraceContext(
		ctx,
		"expression evaluated",
		slog.String("source", strings.TrimSpace(c.x.Source)),
		slog.String("result_type", resultTypeName(result)),
	)

	content, err := ToContent(result)
	if err != nil {
		return ErrExprEvaluate.Wrap(err).
			With(slog.String("source", c.x.Source))
	}

	return content.Render(w)
}

// exprAttr is an expression used as an attribute value. It implements
// [html.Resolver], so it is evaluated each time it is written and holds no
// state of its own.
//
// A nil result makes the attribute bare. Any other result is written in its
// default format.
type exprAttr struct {
	x   *Expr
	env map[string]any
}

// Resolve implements [html.Resolver].
func (a *exprAttr) Resolve() (html.AttrValue, error) {
	prog, err := a.x.program()
	if err != nil {
		return nil, err
	}

	result, err := run(prog, a.x.Source, a.env)
	if err != nil {
		return nil, err
	}

	return EmbedAttr(result), nil
}

// IsUnit implements [html.AttrValue]. The value is only known once resolved.
func (a *exprAttr) IsUnit() bool { return false }

// WriteAttrValue implements [html.AttrValue] for writers that do not
// resolve values first.
func (a *exprAttr) WriteAttrValue(w io.Writer) error {
	v, err := a.Resolve()
	if err != nil {
		return err
	}

	return v.WriteAttrValue(w)
}
