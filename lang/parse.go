package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/htmldsl/lang/lexer"
	"github.com/ardnew/htmldsl/lang/token"
)

// ParseString lexes and parses src.
//
// Lexical errors wrap [ErrLex] and carry the position of the offending
// input. Grammar violations are reported as [ErrSyntax].
func ParseString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Template, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, ErrLex.Wrap(err).
			With(slog.Int("source_length", len(src)))
	}

	return Parse(ctx, toks, opts...)
}

// Parse parses a token tree into a [Template].
//
// Parsing either consumes every token or fails as a whole with [ErrSyntax].
// There is no partial result and no recovery, and the error does not
// identify where in the input the grammar was violated.
func Parse(
	ctx context.Context,
	toks []token.Token,
	opts ...Option,
) (*Template, error) {
	tmpl := new(Template)

	applyDefaults(tmpl)
	applyOptions(tmpl, opts...)

	tmpl.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("token_count", len(toks)),
		slog.Int("max_depth", tmpl.opts.maxDepth),
	)

	p := parser{maxDepth: tmpl.opts.maxDepth}

	elems, ok := p.elements(toks)
	if !ok {
		if p.tooDeep {
			return nil, ErrSyntax.Wrap(
				ErrMaxDepthExceeded.With(slog.Int("max_depth", p.maxDepth)),
			)
		}

		return nil, ErrSyntax
	}

	tmpl.Elements = elems

	if tmpl.opts.compileExprs {
		for _, x := range tmpl.Exprs() {
			if _, err := x.program(); err != nil {
				return nil, err
			}
		}

		tmpl.logger.TraceContext(ctx, "expressions compiled")
	}

	tmpl.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("element_count", len(elems)),
	)

	return tmpl, nil
}

// parser holds the parser state.
//
// Every rule takes the tokens remaining at its position and returns what it
// parsed, the number of tokens it consumed, and whether it matched. A rule
// that does not match consumes nothing.
type parser struct {
	maxDepth int
	depth    int
	tooDeep  bool
}

// elements parses: element*, consuming every token.
func (p *parser) elements(toks []token.Token) ([]Element, bool) {
	var elems []Element

	for i := 0; i < len(toks); {
		e, n, ok := p.element(toks[i:])
		if !ok {
			return nil, false
		}

		elems = append(elems, e)
		i += n
	}

	return elems, true
}

// element parses: tag | literal | '(' expr ')'.
func (p *parser) element(toks []token.Token) (Element, int, bool) {
	switch t := toks[0]; t.Kind {
	case token.Ident:
		tag, n, ok := p.tag(toks)
		if !ok {
			return nil, 0, false
		}

		return tag, n, true

	case token.Literal:
		return literal(t), 1, true

	case token.Group:
		if t.Delim == token.Paren {
			return newExpr(t), 1, true
		}
	}

	return nil, 0, false
}

// tag parses: identifier attribute* tail.
func (p *parser) tag(toks []token.Token) (*Tag, int, bool) {
	name, i, ok := identifier(toks)
	if !ok {
		return nil, 0, false
	}

	tag := &Tag{Name: name, Pos: toks[0].Pos}

	for i < len(toks) {
		if children, n, ok := p.tail(toks[i:]); ok {
			tag.Children = children

			return tag, i + n, true
		}

		if p.tooDeep {
			return nil, 0, false
		}

		a, n, ok := attribute(toks[i:])
		if !ok {
			return nil, 0, false
		}

		tag.Attrs = append(tag.Attrs, a)
		i += n
	}

	return nil, 0, false
}

// tail parses: ';' | '{' elements '}'.
func (p *parser) tail(toks []token.Token) ([]Element, int, bool) {
	switch t := toks[0]; {
	case t.Is(';'):
		return nil, 1, true

	case t.IsGroup(token.Brace):
		if p.maxDepth > 0 && p.depth >= p.maxDepth {
			p.tooDeep = true

			return nil, 0, false
		}

		p.depth++
		defer func() { p.depth-- }()

		children, ok := p.elements(t.Children)
		if !ok {
			return nil, 0, false
		}

		return children, 1, true
	}

	return nil, 0, false
}

// attribute parses:
//
//	'.' identifier | '#' identifier | identifier [ '=' value ]
func attribute(toks []token.Token) (Attr, int, bool) {
	if t := toks[0]; t.Is('.') || t.Is('#') {
		name := "class"
		if t.Is('#') {
			name = "id"
		}

		word, n, ok := identifier(toks[1:])
		if !ok {
			return Attr{}, 0, false
		}

		return Attr{Name: name, Value: wordLiteral(word, toks[1])}, 1 + n, true
	}

	name, n, ok := identifier(toks)
	if !ok {
		return Attr{}, 0, false
	}

	if n >= len(toks) || !toks[n].Is('=') {
		return Attr{Name: name}, n, true
	}

	value, m, ok := attrValue(toks[n+1:])
	if !ok {
		return Attr{}, 0, false
	}

	return Attr{Name: name, Value: value}, n + 1 + m, true
}

// attrValue parses the value following '=':
//
//	identifier | string | char | '(' expr ')' | <nothing>
//
// Nothing matches when the input ends or continues with punctuation that
// cannot start an identifier; the attribute is then bare. A number or a
// group other than parentheses is an error.
func attrValue(toks []token.Token) (AttrValue, int, bool) {
	if len(toks) == 0 {
		return nil, 0, true
	}

	if word, n, ok := identifier(toks); ok {
		return wordLiteral(word, toks[0]), n, true
	}

	switch t := toks[0]; t.Kind {
	case token.Literal:
		if t.Lit == token.Number {
			return nil, 0, false
		}

		return literal(t), 1, true

	case token.Group:
		if t.Delim != token.Paren {
			return nil, 0, false
		}

		return newExpr(t), 1, true
	}

	return nil, 0, true
}

// identifier parses a greedy alternation of words and single '-'
// punctuation, such as some-id or data-x-y. Two words or two dashes in
// succession end the identifier, as does anything else.
func identifier(toks []token.Token) (string, int, bool) {
	var (
		sb       strings.Builder
		n        int
		prevWord bool
		prevDash bool
	)

scan:
	for ; n < len(toks); n++ {
		switch t := toks[n]; {
		case t.Kind == token.Ident && !prevWord:
			sb.WriteString(t.Text)

			prevWord, prevDash = true, false

		case t.Is('-') && !prevDash:
			sb.WriteByte('-')

			prevWord, prevDash = false, true

		default:
			break scan
		}
	}

	if n == 0 {
		return "", 0, false
	}

	return sb.String(), n, true
}

func literal(t token.Token) *Literal {
	return &Literal{Kind: t.Lit, Source: t.Text, Value: t.Value, Pos: t.Pos}
}

// wordLiteral returns an identifier-shaped value as a string literal.
func wordLiteral(word string, at token.Token) *Literal {
	return &Literal{Kind: token.String, Source: word, Value: word, Pos: at.Pos}
}

func newExpr(t token.Token) *Expr {
	return &Expr{Source: t.Text, Tokens: t.Children, Pos: t.Pos}
}
