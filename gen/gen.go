package gen

import (
	"bytes"
	"context"
	"fmt"
	goformat "go/format"
	goparser "go/parser"
	gotoken "go/token"
	"log/slog"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

const (
	htmlPath = "github.com/ardnew/htmldsl/html"
	langPath = "github.com/ardnew/htmldsl/lang"
)

// Errors returned by [Generate].
var (
	ErrOption = lang.NewError("invalid generator option")
	ErrGoExpr = lang.NewError("invalid Go expression")
)

// Splice selects how expressions are written into generated code.
type Splice int

const (
	// SpliceEval evaluates each expression with expr-lang at render time
	// against the env argument of the generated function.
	SpliceEval Splice = iota

	// SpliceGo pastes each expression into the generated code as a Go
	// expression. Identifiers resolve in the generated package, and env is
	// in scope.
	SpliceGo
)

func (s Splice) String() string {
	switch s {
	case SpliceEval:
		return "eval"
	case SpliceGo:
		return "go"
	default:
		return fmt.Sprintf("Splice(%d)", int(s))
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Splice) UnmarshalText(text []byte) error {
	switch v := strings.ToLower(strings.TrimSpace(string(text))); v {
	case "eval", "":
		*s = SpliceEval
	case "go":
		*s = SpliceGo
	default:
		return ErrOption.With(slog.String("splice", v))
	}

	return nil
}

// Defaults of [Options].
const (
	DefaultPackage = "templates"
	DefaultFunc    = "Render"
)

// Options configures [Generate].
type Options struct {
	Package string // package clause; DefaultPackage if empty
	Func    string // name of the generated function; DefaultFunc if empty
	Splice  Splice
	Logger  log.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Package == "" {
		o.Package = DefaultPackage
	}

	if o.Func == "" {
		o.Func = DefaultFunc
	}

	if !gotoken.IsIdentifier(o.Package) {
		return o, ErrOption.With(slog.String("package", o.Package))
	}

	if !gotoken.IsIdentifier(o.Func) {
		return o, ErrOption.With(slog.String("func", o.Func))
	}

	if o.Splice != SpliceEval && o.Splice != SpliceGo {
		return o, ErrOption.With(slog.String("splice", o.Splice.String()))
	}

	return o, nil
}

// Generate returns gofmt'd Go source declaring
//
//	func Func(env map[string]any) html.Content
//
// that builds tmpl.
func Generate(ctx context.Context, tmpl *lang.Template, opts Options) ([]byte, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	g := generator{splice: opts.Splice}

	items := make([]jen.Code, 0, len(tmpl.Elements))

	for _, e := range tmpl.Elements {
		code, err := g.element(e)
		if err != nil {
			return nil, err
		}

		items = append(items, code)
	}

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by htmldsl gen. DO NOT EDIT.")
	f.ImportName(htmlPath, "html")
	f.ImportName(langPath, "lang")

	f.Commentf("%s returns the template as content.", opts.Func)
	f.Func().Id(opts.Func).
		Params(jen.Id("env").Map(jen.String()).Any()).
		Qual(htmlPath, "Content").
		Block(
			jen.Return(jen.Qual(htmlPath, "Fragment").Custom(multiline, items...)),
		)

	var buf bytes.Buffer

	if err := f.Render(&buf); err != nil {
		return nil, err
	}

	opts.Logger.TraceContext(
		ctx,
		"generate complete",
		slog.String("package", opts.Package),
		slog.String("func", opts.Func),
		slog.String("splice", opts.Splice.String()),
		slog.Int("source_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// multiline writes call arguments one per line.
var multiline = jen.Options{Open: "(", Close: ")", Separator: ",", Multi: true}

type generator struct {
	splice Splice
}

func (g generator) element(e lang.Element) (jen.Code, error) {
	switch e := e.(type) {
	case *lang.Literal:
		return jen.Qual(htmlPath, "Text").Call(jen.Lit(e.Value)), nil

	case *lang.Expr:
		return g.content(e)

	case *lang.Tag:
		return g.tag(e)
	}

	return nil, lang.ErrInvalidValueType.With(slog.String("type", fmt.Sprintf("%T", e)))
}

func (g generator) tag(t *lang.Tag) (jen.Code, error) {
	ctor := "Custom"
	if lang.IsIdent(t.Name) {
		ctor = "El"
	}

	s := jen.Qual(htmlPath, ctor).Call(jen.Lit(t.Name))

	for _, a := range t.Attrs {
		if !html.IsValidAttrName(a.Name) {
			return nil, lang.ErrAttrName.With(
				slog.String("attr", a.Name),
				slog.String("tag", t.Name),
				slog.String("pos", t.Pos.String()),
			)
		}

		v, err := g.attrValue(a.Value)
		if err != nil {
			return nil, err
		}

		s = s.Dot("Attr").Call(jen.Lit(a.Name), v)
	}

	if len(t.Children) == 0 {
		return s, nil
	}

	children := make([]jen.Code, 0, len(t.Children))

	for _, c := range t.Children {
		code, err := g.element(c)
		if err != nil {
			return nil, err
		}

		children = append(children, code)
	}

	return s.Dot("Children").Custom(multiline, children...), nil
}

func (g generator) attrValue(v lang.AttrValue) (jen.Code, error) {
	switch v := v.(type) {
	case nil:
		return jen.Qual(htmlPath, "NoValue"), nil

	case *lang.Literal:
		return jen.Qual(htmlPath, "Value").Call(jen.Lit(v.Value)), nil

	case *lang.Expr:
		if g.splice == SpliceEval {
			return jen.Qual(langPath, "SpliceAttr").
				Call(jen.Lit(strings.TrimSpace(v.Source)), jen.Id("env")), nil
		}

		x, err := goExpr(v)
		if err != nil {
			return nil, err
		}

		return jen.Qual(langPath, "EmbedAttr").Call(x), nil
	}

	return nil, lang.ErrInvalidValueType.With(slog.String("type", fmt.Sprintf("%T", v)))
}

func (g generator) content(x *lang.Expr) (jen.Code, error) {
	if g.splice == SpliceEval {
		return jen.Qual(langPath, "Splice").
			Call(jen.Lit(strings.TrimSpace(x.Source)), jen.Id("env")), nil
	}

	code, err := goExpr(x)
	if err != nil {
		return nil, err
	}

	return jen.Qual(langPath, "Embed").Call(code), nil
}

// goExpr parses x as a Go expression and returns it reprinted in canonical
// form, without comments. A blank expression is nil.
func goExpr(x *lang.Expr) (jen.Code, error) {
	src := strings.TrimSpace(x.Source)
	if src == "" {
		return jen.Nil(), nil
	}

	fset := gotoken.NewFileSet()

	node, err := goparser.ParseExprFrom(fset, "", src, 0)
	if err == nil {
		var buf bytes.Buffer

		if err = goformat.Node(&buf, fset, node); err == nil {
			return jen.Parens(jen.Id(buf.String())), nil
		}
	}

	return nil, ErrGoExpr.Wrap(err).With(
		slog.String("source", src),
		slog.String("pos", x.Pos.String()),
	)
}
