// Package token defines the tokens produced by the template lexer.
//
// Tokens form a tree: every bracketed region of the source becomes a single
// [Group] token whose Children hold the tokens between its delimiters.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the class of a token.
type Kind uint8

const (
	// Ident is a word: a letter or underscore followed by letters, digits and
	// underscores.
	Ident Kind = iota

	// Literal is a string, character or numeric literal.
	Literal

	// Punct is a single punctuation character.
	Punct

	// Group is a bracketed sequence of tokens.
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "Ident"
	case Literal:
		return "Literal"
	case Punct:
		return "Punct"
	case Group:
		return "Group"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Delim identifies the brackets enclosing a [Group].
type Delim uint8

const (
	// None marks a group without delimiters.
	None Delim = iota

	// Paren is ( ... ).
	Paren

	// Brace is { ... }.
	Brace

	// Bracket is [ ... ].
	Bracket
)

func (d Delim) String() string {
	switch d {
	case None:
		return "None"
	case Paren:
		return "Paren"
	case Brace:
		return "Brace"
	case Bracket:
		return "Bracket"
	default:
		return "Delim(" + strconv.Itoa(int(d)) + ")"
	}
}

// Open returns the opening delimiter, or "" for [None].
func (d Delim) Open() string {
	switch d {
	case Paren:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing delimiter, or "" for [None].
func (d Delim) Close() string {
	switch d {
	case Paren:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// LitKind identifies the form of a [Literal].
type LitKind uint8

const (
	// String is a double-quoted string.
	String LitKind = iota

	// Char is a single-quoted character.
	Char

	// Number is an unquoted numeric literal.
	Number
)

func (k LitKind) String() string {
	switch k {
	case String:
		return "String"
	case Char:
		return "Char"
	case Number:
		return "Number"
	default:
		return "LitKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Pos is a position in source text. Line and Col are 1-based; Col counts
// runes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Token is one lexical token.
//
// Text is the exact source text of the token. For a group it is the source
// between, and not including, the delimiters. Value is the decoded value of
// a literal: the unescaped contents of a string or character, or the source
// text of a number.
type Token struct {
	Kind     Kind
	Text     string
	Value    string
	Lit      LitKind
	Delim    Delim
	Children []Token
	Pos      Pos
}

// Is reports whether t is punctuation ch.
func (t Token) Is(ch byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsGroup reports whether t is a group delimited by d.
func (t Token) IsGroup(d Delim) bool {
	return t.Kind == Group && t.Delim == d
}

// String returns the source form of t, including group delimiters.
func (t Token) String() string {
	if t.Kind == Group {
		return t.Delim.Open() + t.Text + t.Delim.Close()
	}

	return t.Text
}

// Join returns the source form of toks separated by single spaces.
func Join(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}

	return strings.Join(parts, " ")
}
