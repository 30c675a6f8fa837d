package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ardnew/htmldsl/html"
)

func render(t *testing.T, src string, env map[string]any) (string, error) {
	t.Helper()

	tmpl, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	var buf bytes.Buffer

	err = tmpl.Render(context.Background(), &buf, env)

	return buf.String(), err
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"id shorthand", `h1 #some-id { "H1" }`, `<h1 id="some-id">H1</h1>`},
		{
			"void element",
			`img src="img.jpg" alt="Awesome image" {}`,
			`<img src="img.jpg" alt="Awesome image">`,
		},
		{
			"list",
			`ol { li { "Item 1" } li { "Item 2" } li style="color: red" { "Item 3" } }`,
			`<ol><li>Item 1</li><li>Item 2</li><li style="color: red">Item 3</li></ol>`,
		},
		{"empty element", "footer;", "<footer></footer>"},
		{"empty braces", "div {}", "<div></div>"},
		{"void with content", `br { "x" }`, "<br>x</br>"},
		{"custom element", "my-widget;", "<my-widget></my-widget>"},
		{"custom void name", "img-x;", "<img-x></img-x>"},
		{"bare attribute", "input disabled;", "<input disabled>"},
		{
			"classes",
			`p .lead .wide { "x" }`,
			`<p class="lead" class="wide">x</p>`,
		},
		{"text escaping", `p { "a < b & c > d" }`, "<p>a &lt; b &amp; c &gt; d</p>"},
		{"line break", `p { "one\ntwo" }`, "<p>one<br>two</p>"},
		{"attribute escaping", `a title="say \"hi\"\t'x'";`, `<a title="say \"hi\"\t\'x\'"></a>`},
		{"top level text", `"a" "b"`, "ab"},
		{"number content", "p { 42 }", "<p>42</p>"},
		{"siblings", "br; hr; p;", "<br><hr><p></p>"},
		{"empty template", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(t, tt.src, nil)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRender_Expressions(t *testing.T) {
	env := map[string]any{
		"user":     map[string]any{"name": "<Ann>", "admin": true},
		"items":    []string{"a", "b"},
		"nothing":  nil,
		"hostname": "shadowed",
		"link":     html.El("a").Attr("href", html.Value("/x")).Child(html.Text("x")),
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"escaped string", "p { (user.name) }", "<p>&lt;Ann&gt;</p>"},
		{"raw builtin", `p { (raw("<b>hi</b>")) }`, "<p><b>hi</b></p>"},
		{"text builtin", "p { (text(1 + 2)) }", "<p>3</p>"},
		{"slice", "p { (items) }", "<p>ab</p>"},
		{"mapped slice", `ul { (map(items, raw("<li>" + # + "</li>"))) }`, "<ul><li>a</li><li>b</li></ul>"},
		{"nil content keeps tag open", "p { (nothing) }", "<p></p>"},
		{"nil attribute is bare", "input checked=(nothing);", "<input checked>"},
		{"bool attribute", "input checked=(user.admin);", `<input checked="true">`},
		{"number attribute", "td colspan=(1 + 1);", `<td colspan="2"></td>`},
		{"string attribute", `a href=("/u/" + "ann");`, `<a href="/u/ann"></a>`},
		{"content value", "nav { (link) }", `<nav><a href="/x">x</a></nav>`},
		{"shadowed builtin", "p { (hostname) }", "<p>shadowed</p>"},
		{"doctype builtin", "(doctype) html;", "<!DOCTYPE html><html></html>"},
		{"class join", `p class=(classes.join("a b", "b c", ""));`, `<p class="a b c"></p>`},
		{"empty expression", "p { () }", "<p></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(t, tt.src, env)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRender_ClosesTagsOnExpressionFailure(t *testing.T) {
	env := map[string]any{
		"fail": func() (string, error) { return "", errors.New("boom") },
	}

	src := `main { section {
		p { "before" }
		div { "partial" (fail()) "never" }
		p { "after" }
	} }`

	got, err := render(t, src, env)
	if !errors.Is(err, ErrExprEvaluate) {
		t.Fatalf("error = %v, want ErrExprEvaluate", err)
	}

	want := "<main><section><p>before</p><div>partial</div></section></main>"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRender_ExpressionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"compile", "p { (1 +) }", ErrExprCompile},
		{"compile in attribute", "p x=(1 +);", ErrExprCompile},
		{"unsupported result", "p { (user) }", ErrExprEvaluate},
	}

	env := map[string]any{"user": map[string]any{"name": "ann"}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render(t, tt.src, env)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRender_AttrValueFailure(t *testing.T) {
	env := map[string]any{
		"fail": func() (string, error) { return "", errors.New("boom") },
	}

	got, err := render(t, `div { a x=(fail()) { "x" } }`, env)
	if !errors.Is(err, ErrExprEvaluate) {
		t.Fatalf("error = %v, want ErrExprEvaluate", err)
	}

	if want := `<div><a x=""></a></div>`; got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuild_InvalidAttrName(t *testing.T) {
	tmpl, err := ParseString(context.Background(), "div _private;")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	err = tmpl.Render(context.Background(), &buf, nil)
	if !errors.Is(err, ErrAttrName) {
		t.Fatalf("error = %v, want ErrAttrName", err)
	}

	if buf.Len() != 0 {
		t.Errorf("wrote %q before failing", buf.String())
	}
}

func TestBuild_Reusable(t *testing.T) {
	tmpl, err := ParseString(context.Background(), `ul { li { (n) } li; }`)
	if err != nil {
		t.Fatal(err)
	}

	c, err := tmpl.Build(context.Background(), map[string]any{"n": 7})
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		var buf bytes.Buffer

		if err := html.NewWriter(&buf).Render(c); err != nil {
			t.Fatal(err)
		}

		if got, want := buf.String(), "<ul><li>7</li><li></li></ul>"; got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}

func TestBuild_AttrEvaluatedPerRender(t *testing.T) {
	tmpl, err := ParseString(context.Background(), `p title=(next()) { (next()) }`)
	if err != nil {
		t.Fatal(err)
	}

	var n atomic.Int64

	env := map[string]any{"next": func() int64 { return n.Add(1) }}

	c, err := tmpl.Build(context.Background(), env)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`<p title="1">2</p>`, `<p title="3">4</p>`} {
		var buf bytes.Buffer

		if err := html.NewWriter(&buf).Render(c); err != nil {
			t.Fatal(err)
		}

		if got := buf.String(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}

func TestBuild_ConcurrentRender(t *testing.T) {
	tmpl, err := ParseString(context.Background(), `a href=(base + "/x") { (base) }`)
	if err != nil {
		t.Fatal(err)
	}

	c, err := tmpl.Build(context.Background(), map[string]any{"base": "/root"})
	if err != nil {
		t.Fatal(err)
	}

	const want = `<a href="/root/x">/root</a>`

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			var buf bytes.Buffer

			if err := html.NewWriter(&buf).Render(c); err != nil {
				t.Error(err)

				return
			}

			if got := buf.String(); got != want {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}

	wg.Wait()
}

func TestRender_Canceled(t *testing.T) {
	tmpl, err := ParseString(context.Background(), "p; p;")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer

	if err := tmpl.Render(ctx, &buf, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	if buf.Len() != 0 {
		t.Errorf("wrote %q after cancel", buf.String())
	}
}

func TestIsIdent(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"div", true},
		{"h1", true},
		{"_x", true},
		{"élan", true},
		{"", false},
		{"1a", false},
		{"my-el", false},
		{"-", false},
	}

	for _, tt := range tests {
		if got := IsIdent(tt.name); got != tt.want {
			t.Errorf("IsIdent(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRender_RoundTrip(t *testing.T) {
	src := `html lang=en {
		head { title { "T" } meta charset="utf-8"; }
		body .main { h1 #top { "Hi & bye" } p { (n * 2) } img src=(path); }
	}`

	env := map[string]any{"n": 21, "path": "/a.png"}

	tmpl, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 2} {
		var formatted strings.Builder

		if err := tmpl.Format(context.Background(), &formatted, indent); err != nil {
			t.Fatal(err)
		}

		a, err := render(t, src, env)
		if err != nil {
			t.Fatal(err)
		}

		b, err := render(t, formatted.String(), env)
		if err != nil {
			t.Fatal(err)
		}

		if a != b {
			t.Errorf("indent %d: formatted template renders differently:\n%s\n%s", indent, a, b)
		}
	}
}
