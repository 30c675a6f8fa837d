package lang

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/htmldsl/lang/lexer"
)

// canonical parses src and formats it on one line.
func canonical(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	tmpl, err := ParseString(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	var sb strings.Builder

	if err := tmpl.Format(context.Background(), &sb, 0); err != nil {
		t.Fatalf("Format: %v", err)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func TestParseString_Grammar(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"only comments", "// nothing\n/* at /* all */ */", ""},
		{"terminated tag", "footer;", "footer;"},
		{"empty children", "div {}", "div;"},
		{"id shorthand", `h1 #some-id { "H1" }`, `h1 id="some-id" { "H1" }`},
		{"class shorthand", "p .lead .wide;", `p class="lead" class="wide";`},
		{
			"string attributes",
			`img src="img.jpg" alt="Awesome image" {}`,
			`img src="img.jpg" alt="Awesome image";`,
		},
		{"char attribute", `td align='c';`, `td align='c';`},
		{"word attribute", "a rel=no-follow;", `a rel="no-follow";`},
		{"bare attribute", "input disabled;", "input disabled;"},
		{"bare after equals", "input disabled= ;", "input disabled;"},
		{"hyphenated names", "my-widget data-user-id=x;", `my-widget data-user-id="x";`},
		{"repeated attributes", "b x=a x=b;", `b x="a" x="b";`},
		{"expression attribute", "a href=(base + path);", "a href=(base + path);"},
		{
			"nested",
			`ol { li { "Item 1" } li { "Item 2" } }`,
			`ol { li { "Item 1" } li { "Item 2" } }`,
		},
		{"content expression", "p { (user.name) }", "p { (user.name) }"},
		{"top level literals", `"top" 'c' 42`, `"top" 'c' 42`},
		{"literal escapes", `p { "a\"b\\c\nd" }`, `p { "a\"b\\c\nd" }`},
		{"siblings", "br; hr;", "br; hr;"},
		{"comments between", "br; // one\n/* two */ hr;", "br; hr;"},
		{"brackets in expression", "p { (xs[0]) }", "p { (xs[0]) }"},
		{"empty expression", "p { () }", "p { () }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canonical(t, tt.src); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestParseString_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing tail", "div"},
		{"missing tail after attributes", `div class="a"`},
		{"number attribute", "td colspan=2;"},
		{"brace attribute value", "div x={a};"},
		{"bracket attribute value", "div x=[a];"},
		{"punctuation element", ";"},
		{"brace element", "{ }"},
		{"bracket element", "[ p; ]"},
		{"class without name", "div . ;"},
		{"id without name", "div # { }"},
		{"literal attribute", `div "x";`},
		{"bad child", "ul { li; ; }"},
		{"unterminated child", "ul { li }"},
		{"leading dash", "-x;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseString(context.Background(), tt.src)
			if err == nil {
				t.Fatalf("expected error, got %d elements", len(tmpl.Elements))
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v is not ErrSyntax", err)
			}

			if tmpl != nil {
				t.Error("failed parse returned a template")
			}
		})
	}
}

func TestParseString_LexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
	}{
		{"unclosed brace", "div {\n  p;", "1:5"},
		{"stray close", "div; }", "1:6"},
		{"unterminated string", `p { "abc }`, "1:5"},
		{"bad escape", `p { "\q" }`, "1:7"},
		{"unterminated comment", "p; /* x", "1:4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.src)
			if !errors.Is(err, ErrLex) {
				t.Fatalf("error %v is not ErrLex", err)
			}

			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("error %v does not carry a lexer.Error", err)
			}

			if got := lexErr.Pos.String(); got != tt.pos {
				t.Errorf("position = %s, want %s", got, tt.pos)
			}
		})
	}
}

func nested(depth int) string {
	return strings.Repeat("div { ", depth) + "br;" + strings.Repeat(" }", depth)
}

func TestParse_MaxDepth(t *testing.T) {
	ctx := context.Background()

	if _, err := ParseString(ctx, nested(3), WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3 with limit 3: %v", err)
	}

	_, err := ParseString(ctx, nested(4), WithMaxDepth(3))
	if !errors.Is(err, ErrSyntax) || !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("depth 4 with limit 3: got %v", err)
	}

	if _, err := ParseString(ctx, nested(DefaultMaxDepth+1)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("default limit not enforced: %v", err)
	}

	if _, err := ParseString(ctx, nested(DefaultMaxDepth+1), WithMaxDepth(0)); err != nil {
		t.Errorf("unlimited depth: %v", err)
	}
}

func TestParse_CompileExprs(t *testing.T) {
	ctx := context.Background()
	src := "p { (1 +) }"

	if _, err := ParseString(ctx, src); err != nil {
		t.Fatalf("lazy compile should defer errors: %v", err)
	}

	_, err := ParseString(ctx, src, WithCompileExprs(true))
	if !errors.Is(err, ErrExprCompile) {
		t.Errorf("expected ErrExprCompile, got %v", err)
	}
}

func TestTemplate_Traversal(t *testing.T) {
	src := `nav .top #menu {
	  a href=(links.home) .item { "Home" }
	  a href="/about" .item .last { (labels.about) }
	}
	footer;`

	tmpl, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := tmpl.Tags(), []string{"nav", "a", "footer"}; !slices.Equal(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}

	var sources []string
	for _, x := range tmpl.Exprs() {
		sources = append(sources, x.Source)
	}

	if want := []string{"links.home", "labels.about"}; !slices.Equal(sources, want) {
		t.Errorf("Exprs() = %v, want %v", sources, want)
	}

	nav, ok := tmpl.Elements[0].(*Tag)
	if !ok {
		t.Fatalf("first element is %T", tmpl.Elements[0])
	}

	if id, ok := nav.Attr("id"); !ok || id.(*Literal).Value != "menu" {
		t.Errorf("Attr(id) = %v, %v", id, ok)
	}

	if _, ok := nav.Attr("href"); ok {
		t.Error("nav has no href")
	}

	last := nav.Children[1].(*Tag)
	if got := last.Classes(); !slices.Equal(got, []string{"item", "last"}) {
		t.Errorf("Classes() = %v", got)
	}

	if last.Pos.Line != 3 {
		t.Errorf("Pos = %v, want line 3", last.Pos)
	}

	var count int
	for range tmpl.All() {
		count++

		if count == 2 {
			break
		}
	}

	if count != 2 {
		t.Errorf("early exit visited %d elements", count)
	}
}

func TestParse_ExprNodes(t *testing.T) {
	tmpl, err := ParseString(context.Background(), "a title=(t + 1) { (n) }\n(top)")
	if err != nil {
		t.Fatal(err)
	}

	a, ok := tmpl.Elements[0].(*Tag)
	if !ok {
		t.Fatalf("first element is %T", tmpl.Elements[0])
	}

	tests := []struct {
		name   string
		elem   any
		source string
		tokens int
		line   int
	}{
		{"attribute", a.Attrs[0].Value, "t + 1", 3, 1},
		{"content", a.Children[0], "n", 1, 1},
		{"top level", tmpl.Elements[1], "top", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := tt.elem.(*Expr)
			if !ok {
				t.Fatalf("got %T, want *Expr", tt.elem)
			}

			if got := strings.TrimSpace(x.Source); got != tt.source {
				t.Errorf("Source = %q, want %q", got, tt.source)
			}

			if len(x.Tokens) != tt.tokens {
				t.Errorf("len(Tokens) = %d, want %d", len(x.Tokens), tt.tokens)
			}

			if x.Pos.Line != tt.line {
				t.Errorf("Pos = %v, want line %d", x.Pos, tt.line)
			}
		})
	}
}
