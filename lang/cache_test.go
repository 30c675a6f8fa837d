package lang

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestParseCached_SharesTemplate(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	src := `p { "cached" }`

	a, err := ParseCached(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ParseCached(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("expected the same template from the cache")
	}

	c, err := ParseCached(ctx, src, WithMaxDepth(3))
	if err != nil {
		t.Fatal(err)
	}

	if c == a {
		t.Error("different options must not share a cache entry")
	}

	ClearCache()

	d, err := ParseCached(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	if d == a {
		t.Error("ClearCache kept the entry")
	}
}

func TestParseCached_CachesFailures(t *testing.T) {
	ClearCache()

	for range 2 {
		if _, err := ParseCached(context.Background(), "div"); !errors.Is(err, ErrSyntax) {
			t.Errorf("error = %v, want ErrSyntax", err)
		}
	}
}

func TestParseCached_Concurrent(t *testing.T) {
	ClearCache()

	const workers = 16

	var (
		wg      sync.WaitGroup
		results [workers]*Template
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tmpl, err := ParseCached(context.Background(), "section { h2; }")
			if err != nil {
				t.Error(err)

				return
			}

			results[i] = tmpl
		}()
	}

	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d got a different template", i)
		}
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	src := `nav { a href="/" { "home" } }`

	a, err := ParseReader(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	b, err := ParseReader(ctx, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("default options should use the cache")
	}

	c, err := ParseReader(ctx, strings.NewReader(src), WithCompileExprs(true))
	if err != nil {
		t.Fatal(err)
	}

	if c == a {
		t.Error("non-default options should bypass the cache")
	}

	if got := c.Tags(); len(got) != 2 {
		t.Errorf("Tags() = %v", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), failingReader{})
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrReadInput wrapping io.ErrUnexpectedEOF", err)
	}
}

func TestHashOptions(t *testing.T) {
	base := optionsKey{maxDepth: DefaultMaxDepth}

	if hashOptions(base) != hashOptions(base) {
		t.Error("hash is not deterministic")
	}

	if hashOptions(base) == hashOptions(optionsKey{maxDepth: 3}) {
		t.Error("max depth does not affect the hash")
	}

	if hashOptions(base) == hashOptions(optionsKey{maxDepth: DefaultMaxDepth, compileExprs: true}) {
		t.Error("compileExprs does not affect the hash")
	}
}

func BenchmarkParseCached(b *testing.B) {
	ctx := context.Background()
	src := strings.Repeat(`div .row { span { "x" } (y) } `, 64)

	ClearCache()

	for b.Loop() {
		if _, err := ParseCached(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseString(b *testing.B) {
	ctx := context.Background()
	src := strings.Repeat(`div .row { span { "x" } (y) } `, 64)

	for b.Loop() {
		if _, err := ParseString(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}
