package lang

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/htmldsl/html"
)

func renderContent(t *testing.T, c html.Content) string {
	t.Helper()

	var buf bytes.Buffer

	if err := html.NewWriter(&buf).Render(c); err != nil {
		t.Fatalf("Render: %v", err)
	}

	return buf.String()
}

func TestToContent(t *testing.T) {
	var nilPtr *int

	n := 5

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, ""},
		{"string", "<a>", "&lt;a&gt;"},
		{"bytes", []byte("x&y"), "x&amp;y"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"bool", false, "false"},
		{"stringer", 1500 * time.Millisecond, "1.5s"},
		{"content", html.Raw("<hr>"), "<hr>"},
		{"any slice", []any{"a", 1, nil, html.Raw("<br>")}, "a1<br>"},
		{"typed slice", []int{1, 2, 3}, "123"},
		{"array", [2]string{"x", "y"}, "xy"},
		{"nested", []any{[]string{"a", "b"}, "c"}, "abc"},
		{"nil pointer", nilPtr, ""},
		{"pointer", &n, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ToContent(tt.v)
			if err != nil {
				t.Fatalf("ToContent: %v", err)
			}

			if got := renderContent(t, c); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToContent_Unsupported(t *testing.T) {
	for _, v := range []any{
		map[string]any{"a": 1},
		struct{}{},
		[]any{"ok", map[string]int{}},
		func() {},
	} {
		if _, err := ToContent(v); !errors.Is(err, ErrInvalidValueType) {
			t.Errorf("ToContent(%T) error = %v, want ErrInvalidValueType", v, err)
		}
	}
}

func TestEval(t *testing.T) {
	got, err := Eval(`name + "!"`, map[string]any{"name": "ann"})
	if err != nil {
		t.Fatal(err)
	}

	if got != "ann!" {
		t.Errorf("Eval = %v, want ann!", got)
	}

	got, err = Eval("  ", nil)
	if err != nil || got != nil {
		t.Errorf("blank Eval = %v, %v", got, err)
	}

	if _, err := Eval("1 +", nil); !errors.Is(err, ErrExprCompile) {
		t.Errorf("error = %v, want ErrExprCompile", err)
	}
}

func TestSplice(t *testing.T) {
	env := map[string]any{"who": "<you>", "on": nil, "n": 3}

	tag := html.El("p").
		Attr("title", SpliceAttr(`"hi " + who`, env)).
		Attr("hidden", SpliceAttr("on", env)).
		Attr("data-n", SpliceAttr("n * 2", env)).
		Child(Splice("who", env))

	want := `<p title="hi <you>" hidden data-n="6">&lt;you&gt;</p>`
	if got := renderContent(t, tag); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	empty := html.El("p").Child(Splice("on", env))
	if got := renderContent(t, empty); got != "<p></p>" {
		t.Errorf("nil splice: got %s", got)
	}
}

func TestSplice_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := html.NewWriter(&buf).Render(html.El("p").Child(Splice("1 +", nil)))
	if !errors.Is(err, ErrExprCompile) {
		t.Errorf("error = %v, want ErrExprCompile", err)
	}

	if got := buf.String(); got != "<p></p>" {
		t.Errorf("output = %q, want closed tag", got)
	}
}
