package gen

import (
	"context"
	"errors"
	goparser "go/parser"
	gotoken "go/token"
	"strings"
	"testing"

	"github.com/ardnew/htmldsl/lang"
)

func parse(t *testing.T, src string) *lang.Template {
	t.Helper()

	tmpl, err := lang.ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	return tmpl
}

// checkGo fails unless src is a syntactically valid Go file.
func checkGo(t *testing.T, src []byte) {
	t.Helper()

	if _, err := goparser.ParseFile(gotoken.NewFileSet(), "gen.go", src, goparser.AllErrors); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			src:  `h1 #some-id { "H1" }`,
			want: []string{
				"// Code generated by htmldsl gen. DO NOT EDIT.",
				"package templates",
				`"github.com/ardnew/htmldsl/html"`,
				"func Render(env map[string]any) html.Content",
				`html.El("h1").Attr("id", html.Value("some-id")).Children(`,
				`html.Text("H1"),`,
			},
		},
		{
			name: "custom names",
			src:  "footer;",
			opts: Options{Package: "views", Func: "Footer"},
			want: []string{
				"package views",
				"func Footer(env map[string]any) html.Content",
				`html.El("footer")`,
			},
		},
		{
			name: "custom element and bare attribute",
			src:  "my-widget hidden;",
			want: []string{`html.Custom("my-widget").Attr("hidden", html.NoValue)`},
		},
		{
			name: "eval splice",
			src:  `a href=(base + "/x") { (name) }`,
			want: []string{
				`"github.com/ardnew/htmldsl/lang"`,
				`.Attr("href", lang.SpliceAttr("base + \"/x\"", env))`,
				`lang.Splice("name", env),`,
			},
		},
		{
			name: "go splice",
			src:  `a href=(base+"/x") { (strings.ToUpper( name )) }`,
			opts: Options{Splice: SpliceGo},
			want: []string{
				`.Attr("href", lang.EmbedAttr((base + "/x")))`,
				`lang.Embed((strings.ToUpper(name))),`,
			},
		},
		{
			name: "blank go splice",
			src:  "p { () }",
			opts: Options{Splice: SpliceGo},
			want: []string{"lang.Embed(nil)"},
		},
		{
			name: "text escaping",
			src:  `p { "say \"hi\"\n" }`,
			want: []string{`html.Text("say \"hi\"\n")`},
		},
		{
			name: "empty template",
			src:  "",
			want: []string{"return html.Fragment("},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Generate(context.Background(), parse(t, tt.src), tt.opts)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			checkGo(t, out)

			for _, want := range tt.want {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %s\n%s", want, out)
				}
			}
		})
	}
}

func TestGenerate_Nesting(t *testing.T) {
	out, err := Generate(context.Background(),
		parse(t, `ol { li { "Item 1" } li { "Item 2" } }`), Options{})
	if err != nil {
		t.Fatal(err)
	}

	checkGo(t, out)

	s := string(out)

	ol := strings.Index(s, `html.El("ol")`)
	first := strings.Index(s, `html.Text("Item 1")`)
	second := strings.Index(s, `html.Text("Item 2")`)

	if ol < 0 || first < ol || second < first {
		t.Errorf("children out of order:\n%s", s)
	}

	if n := strings.Count(s, `html.El("li")`); n != 2 {
		t.Errorf("found %d li constructors", n)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want error
	}{
		{"bad package", "p;", Options{Package: "my-views"}, ErrOption},
		{"bad func", "p;", Options{Func: "1st"}, ErrOption},
		{"bad splice", "p;", Options{Splice: Splice(9)}, ErrOption},
		{"bad go expression", "p { (a ? b : c) }", Options{Splice: SpliceGo}, ErrGoExpr},
		{"bad go attribute", "p x=(not valid go);", Options{Splice: SpliceGo}, ErrGoExpr},
		{"bad attribute name", "p _x;", Options{}, lang.ErrAttrName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(context.Background(), parse(t, tt.src), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSplice_Text(t *testing.T) {
	tests := []struct {
		text    string
		want    Splice
		wantErr bool
	}{
		{"eval", SpliceEval, false},
		{"", SpliceEval, false},
		{"GO", SpliceGo, false},
		{"lua", 0, true},
	}

	for _, tt := range tests {
		var s Splice

		err := s.UnmarshalText([]byte(tt.text))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) error = %v", tt.text, err)

			continue
		}

		if !tt.wantErr && s != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, s, tt.want)
		}
	}

	if got := SpliceGo.String(); got != "go" {
		t.Errorf("String() = %q", got)
	}
}
