package html

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	nethtml "golang.org/x/net/html"
)

func TestWriterEmptyTags(t *testing.T) {
	tests := []struct {
		name    string
		compact Compactability
		want    string
	}{
		{"div", NonCompactable, "<div></div>"},
		{"footer", NonCompactable, "<footer></footer>"},
		{"br", Compactable(false), "<br>"},
		{"br", Compactable(true), "<br/>"},
		{"x-widget", NonCompactable, "<x-widget></x-widget>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var sb strings.Builder

			op, err := NewWriter(&sb).Open(tt.name, tt.compact)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			if err := op.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if got := sb.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriterCompactionNeverAfterContent(t *testing.T) {
	for _, c := range []Compactability{
		NonCompactable, Compactable(false), Compactable(true),
	} {
		t.Run(c.String(), func(t *testing.T) {
			var sb strings.Builder

			w := NewWriter(&sb)

			op, err := w.Open("p", c)
			if err != nil {
				t.Fatal(err)
			}

			if err := op.Attr("lang", Value("en")); err != nil {
				t.Fatal(err)
			}

			if err := op.Content(); err != nil {
				t.Fatal(err)
			}

			if err := w.Text("a<b"); err != nil {
				t.Fatal(err)
			}

			if err := op.Close(); err != nil {
				t.Fatal(err)
			}

			if want := `<p lang="en">a&lt;b</p>`; sb.String() != want {
				t.Errorf("got %q, want %q", sb.String(), want)
			}
		})
	}
}

func TestOpeningCloseOnce(t *testing.T) {
	var sb strings.Builder

	op, err := NewWriter(&sb).Open("span", NonCompactable)
	if err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if err := op.Close(); err != nil {
			t.Fatal(err)
		}
	}

	if want := "<span></span>"; sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestOpeningState(t *testing.T) {
	var sb strings.Builder

	op, err := NewWriter(&sb).Open("div", NonCompactable)
	if err != nil {
		t.Fatal(err)
	}

	if err := op.Content(); err != nil {
		t.Fatal(err)
	}

	if err := op.Attr("id", Value("late")); !errors.Is(err, ErrState) {
		t.Errorf("Attr() after Content() error = %v, want %v", err, ErrState)
	}

	if err := op.Content(); !errors.Is(err, ErrState) {
		t.Errorf("second Content() error = %v, want %v", err, ErrState)
	}

	_ = op.Close()

	if err := op.Attr("id", Value("closed")); !errors.Is(err, ErrState) {
		t.Errorf("Attr() after Close() error = %v, want %v", err, ErrState)
	}
}

func TestAttrBareAndValued(t *testing.T) {
	var sb strings.Builder

	op, err := NewWriter(&sb).Open("input", Compactable(false))
	if err != nil {
		t.Fatal(err)
	}

	_ = op.Attr("disabled", NoValue)
	_ = op.Attr("checked", nil)
	_ = op.Attr("value", Value(`say "hi"`))
	_ = op.Attr("data-x", Value(""))
	_ = op.Close()

	want := `<input disabled checked value="say \"hi\"" data-x="">`
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

// countingValue resolves to "n<count>", or to a bare value after limit
// resolutions, or fails when err is set.
type countingValue struct {
	count *int
	limit int
	err   error
}

func (countingValue) IsUnit() bool { return false }

func (c countingValue) WriteAttrValue(io.Writer) error {
	return errors.New("written without resolving")
}

func (c countingValue) Resolve() (AttrValue, error) {
	if c.err != nil {
		return nil, c.err
	}

	*c.count++
	if *c.count > c.limit {
		return NoValue, nil
	}

	return Value(fmt.Sprintf("n%d", *c.count)), nil
}

func TestAttrResolver(t *testing.T) {
	var count int

	tag := El("p").Attr("data-n", countingValue{count: &count, limit: 2})

	for _, want := range []string{`<p data-n="n1"></p>`, `<p data-n="n2"></p>`, `<p data-n></p>`} {
		if got := render(t, tag); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	boom := errors.New("boom")

	var sb strings.Builder

	err := NewWriter(&sb).Render(El("p").Attr("x", countingValue{count: &count, err: boom}))
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want %v", err, boom)
	}

	if want := `<p x=""></p>`; sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestAttrInvalidNamePanics(t *testing.T) {
	for _, name := range []string{"", "1a", "-a", "a b", " a", "a=", "ä"} {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			op, err := NewWriter(io.Discard).Open("div", NonCompactable)
			if err != nil {
				t.Fatal(err)
			}

			defer func() {
				r := recover()

				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrAttrName) {
					t.Errorf("recover() = %v, want %v", r, ErrAttrName)
				}
			}()

			_ = op.Attr(name, NoValue)
		})
	}
}

func TestIsValidAttrName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"class", true},
		{"data-id", true},
		{"aria_label", true},
		{"h1", true},
		{"X", true},
		{"", false},
		{"9lives", false},
		{"_x", false},
		{"-x", false},
		{"a.b", false},
		{"a:b", false},
		{"a ", false},
	}

	for _, tt := range tests {
		if got := IsValidAttrName(tt.name); got != tt.want {
			t.Errorf("IsValidAttrName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRelease(t *testing.T) {
	t.Run("stores close error", func(t *testing.T) {
		sink := &failingSink{failAt: 1}

		op, err := NewWriter(sink).Open("div", NonCompactable)
		if err != nil {
			t.Fatal(err)
		}

		var got error

		op.Release(&got)

		if !errors.Is(got, errSink) {
			t.Errorf("Release() stored %v, want %v", got, errSink)
		}
	})

	t.Run("keeps first error", func(t *testing.T) {
		sink := &failingSink{failAt: 1}

		op, err := NewWriter(sink).Open("div", NonCompactable)
		if err != nil {
			t.Fatal(err)
		}

		first := errors.New("first")
		got := first

		op.Release(&got)

		if got != first {
			t.Errorf("Release() replaced %v with %v", first, got)
		}
	})

	t.Run("nil opening", func(t *testing.T) {
		var (
			op  *Opening
			err error
		)

		op.Release(&err)

		if err != nil {
			t.Errorf("Release() on nil = %v", err)
		}
	})
}

func TestDocumentHelpers(t *testing.T) {
	t.Run("doctype", func(t *testing.T) {
		var sb strings.Builder

		if err := NewWriter(&sb).Doctype(); err != nil {
			t.Fatal(err)
		}

		if sb.String() != "<!DOCTYPE html>" {
			t.Errorf("got %q", sb.String())
		}
	})

	t.Run("default meta", func(t *testing.T) {
		var sb strings.Builder

		if err := NewWriter(&sb).DefaultMeta(); err != nil {
			t.Fatal(err)
		}

		want := `<meta http-equiv="X-UA-Compatible" content="ie=edge">` +
			`<meta charset="UTF-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1.0">`
		if sb.String() != want {
			t.Errorf("got %q, want %q", sb.String(), want)
		}
	})

	t.Run("root", func(t *testing.T) {
		var sb strings.Builder

		w := NewWriter(&sb)

		root, err := w.Root("en")
		if err != nil {
			t.Fatal(err)
		}

		_ = w.Text("hi")
		_ = root.Close()

		if want := `<html lang="en">hi</html>`; sb.String() != want {
			t.Errorf("got %q, want %q", sb.String(), want)
		}
	})

	t.Run("document", func(t *testing.T) {
		var sb strings.Builder

		doc := Document("en", El("body").Child(Text("x")))
		if err := NewWriter(&sb).Render(doc); err != nil {
			t.Fatal(err)
		}

		want := `<!DOCTYPE html><html lang="en"><body>x</body></html>`
		if sb.String() != want {
			t.Errorf("got %q, want %q", sb.String(), want)
		}
	})
}

var errSink = errors.New("sink rejected write")

// failingSink accepts writes until the failAt-th call (counting from zero)
// and rejects that call and every later one. It records every write it was
// asked to perform, accepted or not.
type failingSink struct {
	failAt    int
	calls     int
	accepted  strings.Builder
	attempted []string
	failed    []bool
}

func (s *failingSink) Write(p []byte) (int, error) {
	s.attempted = append(s.attempted, string(p))

	ok := s.calls < s.failAt
	s.failed = append(s.failed, !ok)
	s.calls++

	if !ok {
		return 0, errSink
	}

	return s.accepted.Write(p)
}

// attemptedStream joins the attempted writes, leaving out rejected start
// tags, which open nothing.
func (s *failingSink) attemptedStream() string {
	var sb strings.Builder

	for i, w := range s.attempted {
		if s.failed[i] && strings.HasPrefix(w, "<") && !strings.HasPrefix(w, "</") {
			continue
		}

		sb.WriteString(w)
	}

	return sb.String()
}

// checkBalanced reports an error unless every non-void start tag in s has a
// matching end tag in proper nesting order.
func checkBalanced(s string) error {
	z := nethtml.NewTokenizer(strings.NewReader(s))

	var stack []string

	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return z.Err()
			}

			if len(stack) > 0 {
				return fmt.Errorf("unclosed %v in %q", stack, s)
			}

			return nil

		case nethtml.StartTagToken:
			name, _ := z.TagName()
			if !IsVoid(string(name)) {
				stack = append(stack, string(name))
			}

		case nethtml.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 || stack[len(stack)-1] != string(name) {
				return fmt.Errorf("unexpected </%s> with open %v in %q", name, stack, s)
			}

			stack = stack[:len(stack)-1]
		}
	}
}

func closureFixture() Content {
	return El("ol").Class("list").
		Child(El("li").Child(Text("Item 1"))).
		Child(El("li").Attr("title", Value("a 'b'\tc")).Child(Text("x < y\nz"))).
		Child(El("li").Child(El("br")).Child(El("img").Attr("src", Value("a.jpg")))).
		Child(El("li").Attr("hidden", NoValue).Child(Custom("x-empty")))
}

func TestRenderClosureUnderSinkFailure(t *testing.T) {
	full := &failingSink{failAt: 1 << 30}
	if err := NewWriter(full).Render(closureFixture()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if err := checkBalanced(full.accepted.String()); err != nil {
		t.Fatalf("full output: %v", err)
	}

	for n := range full.calls {
		t.Run(fmt.Sprintf("fail at write %d", n), func(t *testing.T) {
			sink := &failingSink{failAt: n}

			err := NewWriter(sink).Render(closureFixture())
			if !errors.Is(err, errSink) {
				t.Fatalf("Render() error = %v, want %v", err, errSink)
			}

			if err := checkBalanced(sink.attemptedStream()); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRenderClosureUnderContentFailure(t *testing.T) {
	errContent := errors.New("content failed")

	doc := El("main").
		Child(El("section").
			Child(El("p").Child(Text("before"))).
			Child(El("div").
				Child(Text("partial")).
				Child(Func(func(*Writer) error { return errContent })).
				Child(El("p").Child(Text("never"))))).
		Child(El("footer"))

	var sb strings.Builder

	err := NewWriter(&sb).Render(doc)
	if !errors.Is(err, errContent) {
		t.Fatalf("Render() error = %v, want %v", err, errContent)
	}

	want := "<main><section><p>before</p><div>partial</div></section></main>"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}

	if err := checkBalanced(sb.String()); err != nil {
		t.Error(err)
	}
}
