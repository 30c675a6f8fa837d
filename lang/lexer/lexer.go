// Package lexer splits template source into a tree of tokens.
//
// Whitespace and comments (// to end of line, and /* */ which may nest)
// separate tokens and are otherwise discarded. Brackets are matched while
// lexing, so every (, { and [ becomes a [token.Group] holding the tokens up
// to its partner.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/htmldsl/lang/token"
)

// Error is a lexical error at a position in the source.
type Error struct {
	Pos token.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// Lex returns the token tree of src.
func Lex(src string) ([]token.Token, error) {
	l := &lexer{src: src, line: 1, col: 1}

	return l.list(token.None, l.pos())
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func (l *lexer) pos() token.Pos {
	return token.Pos{Offset: l.off, Line: l.line, Col: l.col}
}

func (l *lexer) eof() bool { return l.off >= len(l.src) }

func (l *lexer) peek() rune {
	if l.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.off:])

	return r
}

func (l *lexer) peekAt(n int) rune {
	off := l.off

	for range n {
		if off >= len(l.src) {
			return utf8.RuneError
		}

		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}

	if off >= len(l.src) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[off:])

	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexer) errorf(pos token.Pos, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// list lexes tokens until the closing delimiter of open, or end of input
// when open is token.None.
func (l *lexer) list(open token.Delim, start token.Pos) ([]token.Token, error) {
	var toks []token.Token

	for {
		if err := l.skip(); err != nil {
			return nil, err
		}

		if l.eof() {
			if open != token.None {
				return nil, l.errorf(start, "unclosed %q", open.Open())
			}

			return toks, nil
		}

		pos := l.pos()
		r := l.peek()

		switch {
		case r == ')' || r == '}' || r == ']':
			if open == token.None || string(r) != open.Close() {
				return nil, l.errorf(pos, "unexpected %q", r)
			}

			l.advance()

			return toks, nil

		case r == '(' || r == '{' || r == '[':
			l.advance()

			delim := delimOf(r)
			inner := l.off

			children, err := l.list(delim, pos)
			if err != nil {
				return nil, err
			}

			toks = append(toks, token.Token{
				Kind:     token.Group,
				Text:     l.src[inner : l.off-1],
				Delim:    delim,
				Children: children,
				Pos:      pos,
			})

		case isIdentStart(r):
			toks = append(toks, l.ident(pos))

		case unicode.IsDigit(r):
			toks = append(toks, l.number(pos))

		case r == '"':
			tok, err := l.quoted(pos, '"', token.String)
			if err != nil {
				return nil, err
			}

			toks = append(toks, tok)

		case r == '\'':
			tok, err := l.quoted(pos, '\'', token.Char)
			if err != nil {
				return nil, err
			}

			if utf8.RuneCountInString(tok.Value) != 1 {
				return nil, l.errorf(pos, "invalid character literal %s", tok.Text)
			}

			toks = append(toks, tok)

		default:
			l.advance()

			toks = append(toks, token.Token{
				Kind: token.Punct,
				Text: l.src[pos.Offset:l.off],
				Pos:  pos,
			})
		}
	}
}

// skip discards whitespace and comments.
func (l *lexer) skip() error {
	for !l.eof() {
		r := l.peek()

		switch {
		case unicode.IsSpace(r):
			l.advance()

		case r == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case r == '/' && l.peekAt(1) == '*':
			pos := l.pos()
			l.advance()
			l.advance()

			for depth := 1; depth > 0; {
				if l.eof() {
					return l.errorf(pos, "unterminated comment")
				}

				switch {
				case l.peek() == '*' && l.peekAt(1) == '/':
					l.advance()
					l.advance()

					depth--

				case l.peek() == '/' && l.peekAt(1) == '*':
					l.advance()
					l.advance()

					depth++

				default:
					l.advance()
				}
			}

		default:
			return nil
		}
	}

	return nil
}

func (l *lexer) ident(pos token.Pos) token.Token {
	for !l.eof() && isIdentPart(l.peek()) {
		l.advance()
	}

	return token.Token{
		Kind: token.Ident,
		Text: l.src[pos.Offset:l.off],
		Pos:  pos,
	}
}

// number lexes a numeric literal. A '.' continues the literal only when it
// is followed by a digit.
func (l *lexer) number(pos token.Pos) token.Token {
	for !l.eof() {
		r := l.peek()

		if isIdentPart(r) || r == '.' && unicode.IsDigit(l.peekAt(1)) {
			l.advance()

			continue
		}

		break
	}

	text := l.src[pos.Offset:l.off]

	return token.Token{
		Kind:  token.Literal,
		Text:  text,
		Value: text,
		Lit:   token.Number,
		Pos:   pos,
	}
}

// quoted lexes a literal enclosed in quote and decodes its escapes.
func (l *lexer) quoted(
	pos token.Pos,
	quote rune,
	kind token.LitKind,
) (token.Token, error) {
	l.advance()

	var sb strings.Builder

	for {
		if l.eof() {
			return token.Token{}, l.errorf(pos, "unterminated %s literal",
				strings.ToLower(kind.String()))
		}

		r := l.advance()

		switch r {
		case quote:
			return token.Token{
				Kind:  token.Literal,
				Text:  l.src[pos.Offset:l.off],
				Value: sb.String(),
				Lit:   kind,
				Pos:   pos,
			}, nil

		case '\\':
			esc := l.pos()

			d, err := l.escape()
			if err != nil {
				return token.Token{}, l.errorf(esc, "%v", err)
			}

			sb.WriteRune(d)

		default:
			sb.WriteRune(r)
		}
	}
}

// escape decodes the escape sequence following a backslash.
func (l *lexer) escape() (rune, error) {
	if l.eof() {
		return 0, errors.New("unterminated escape sequence")
	}

	switch r := l.advance(); r {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case '\\', '"', '\'':
		return r, nil
	case 'x':
		return l.hex(2, 2)
	case 'u':
		if l.peek() != '{' {
			return 0, errors.New(`expected "{" after \u`)
		}

		l.advance()

		d, err := l.hex(1, 6)
		if err != nil {
			return 0, err
		}

		if l.eof() || l.advance() != '}' {
			return 0, errors.New(`expected "}" after unicode escape`)
		}

		if !utf8.ValidRune(d) {
			return 0, errors.New("invalid unicode escape")
		}

		return d, nil
	default:
		return 0, errors.New("unknown escape sequence \\" + string(r))
	}
}

// hex decodes between lo and hi hexadecimal digits.
func (l *lexer) hex(lo, hi int) (rune, error) {
	start := l.off

	for l.off-start < hi && !l.eof() && isHex(l.peek()) {
		l.advance()
	}

	if l.off-start < lo {
		return 0, errors.New("invalid hexadecimal escape")
	}

	n, err := strconv.ParseUint(l.src[start:l.off], 16, 32)
	if err != nil {
		return 0, errors.New("invalid hexadecimal escape")
	}

	return rune(n), nil
}

func delimOf(r rune) token.Delim {
	switch r {
	case '(':
		return token.Paren
	case '{':
		return token.Brace
	case '[':
		return token.Bracket
	}

	return token.None
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHex(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}
