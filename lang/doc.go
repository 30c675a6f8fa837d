// Package lang parses the template language and renders templates as HTML.
//
// # Grammar
//
// Informal EBNF over the token tree produced by package lexer:
//
//	Template    → Element*
//	Element     → Tag | Literal | '(' Expr ')'
//	Tag         → Identifier Attribute* Tail
//	Tail        → ';' | '{' Element* '}'
//	Attribute   → '.' Identifier               (class="Identifier")
//	            | '#' Identifier               (id="Identifier")
//	            | Identifier [ '=' Value ]
//	Value       → Identifier | String | Char | '(' Expr ')' | <nothing>
//	Identifier  → words and single '-' in alternation, such as data-user-id
//
// A tag must end with either ';' or a braced list of children. When '=' is
// followed by anything that cannot start a value the attribute is bare.
// Numbers are not accepted as attribute values, and a number ends an
// identifier. Any violation makes the whole parse fail with [ErrSyntax].
//
// # Example
//
//	// Comments run to the end of the line.
//	ol .menu #main-menu {
//	  li { "Item 1" }
//	  li data-index=(1 + 1) { (items[1]) }
//	  li style="color: red" hidden { "Item 3" }
//	}
//	footer;
//
// # Expressions
//
// Parenthesized expressions are written in expr-lang and evaluated when the
// template is rendered, against the caller's environment layered over the
// builtins (raw, text, doctype, meta, env, hostname, classes.*). Names in the
// caller's environment shadow builtins.
//
// In content, a result that is already [html.Content] is spliced as is,
// strings and other scalars are written as escaped text, slices are spliced
// item by item and nil writes nothing. As an attribute value, nil makes the
// attribute bare and anything else is written in its default format.
//
// # Rendering
//
// Tags whose names are plain identifiers use the HTML void element table:
// void elements without content are written as a single start tag. Any other
// tag without content is written with an immediate end tag. Every tag is
// closed even when rendering fails partway through.
package lang
